package convert

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf2docx/internal/docx"
	"pdf2docx/internal/shared/metrics"
	"pdf2docx/internal/shared/server/middleware"
	"pdf2docx/internal/shared/server/respond"
	"pdf2docx/internal/shared/telemetry"
	"pdf2docx/internal/uploads"
)

// Client-facing messages.
const (
	MsgNoFile            = "Nenhum arquivo enviado"
	MsgUnsupportedFormat = "Formato não suportado. Por favor, envie um arquivo PDF."
	MsgConversionFailed  = "Erro ao converter arquivo"

	// DownloadName is the attachment name of every converted document.
	DownloadName = "converted.docx"
)

// Handler wires POST /convert to the receiver and the conversion service.
type Handler struct {
	Receiver *uploads.Receiver
	Svc      *Service
}

// NewHandler constructs a Handler.
func NewHandler(receiver *uploads.Receiver, svc *Service) *Handler {
	return &Handler{Receiver: receiver, Svc: svc}
}

// RegisterRoutes attaches the conversion route. Extra handlers run before it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, extra...), h.convert)
	rg.POST("/convert", handlers...)
}

func (h *Handler) convert(c *gin.Context) {
	upload, err := h.Receiver.Receive(c.Writer, c.Request)
	if err != nil {
		h.reject(c, err)
		return
	}
	defer func() {
		if err := upload.Release(); err != nil {
			telemetry.Error("upload.release_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"path":       upload.StoredPath,
				"error":      err.Error(),
			})
		}
	}()

	c.Set(middleware.UploadNameKey, upload.OriginalName)
	c.Set(middleware.UploadBytesKey, upload.Size)
	metrics.ObserveUploadSize(upload.Size)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Convert(ctx, upload)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "conversion_failed", MsgConversionFailed, err)
		return
	}

	respond.Attachment(c, docx.ContentType, DownloadName, result.Document)
}

func (h *Handler) reject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, uploads.ErrNoFileProvided):
		metrics.IncUploadRejected("no_file")
		respond.Error(c, http.StatusBadRequest, "no_file", MsgNoFile, err)
	case errors.Is(err, uploads.ErrUnsupportedFormat):
		metrics.IncUploadRejected("unsupported_format")
		respond.Error(c, http.StatusBadRequest, "unsupported_format", MsgUnsupportedFormat, err)
	case errors.Is(err, uploads.ErrPayloadTooLarge):
		metrics.IncUploadRejected("too_large")
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", tooLargeMessage(h.Receiver.Config().MaxUploadBytes), err)
	default:
		respond.Error(c, http.StatusInternalServerError, "upload_failed", MsgConversionFailed, err)
	}
}

func tooLargeMessage(limit int64) string {
	if limit > 0 && limit%(1<<20) == 0 {
		return fmt.Sprintf("Arquivo muito grande. O limite é de %dMB.", limit>>20)
	}
	return fmt.Sprintf("Arquivo muito grande. O limite é de %d bytes.", limit)
}
