package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"pdf2docx/internal/shared/storage/scratch"
	"pdf2docx/internal/shared/telemetry"
)

const (
	// DefaultFieldName is the multipart field that carries the upload.
	DefaultFieldName = "file"
	// DefaultMaxUploadBytes is the size ceiling applied when Config leaves it unset.
	DefaultMaxUploadBytes = 10 << 20

	multipartOverhead = 1 << 20
	sniffLen          = 512
	maxNameAttempts   = 8
)

// Config holds the limits the receiver enforces.
type Config struct {
	FieldName      string
	MaxUploadBytes int64
}

func (c Config) withDefaults() Config {
	if c.FieldName == "" {
		c.FieldName = DefaultFieldName
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return c
}

// Receiver validates a multipart upload and stores it in the scratch directory.
type Receiver struct {
	cfg Config
	dir *scratch.Dir
	now func() time.Time
}

// NewReceiver constructs a Receiver. A nil clock uses time.Now.
func NewReceiver(cfg Config, dir *scratch.Dir, now func() time.Time) *Receiver {
	if now == nil {
		now = time.Now
	}
	return &Receiver{cfg: cfg.withDefaults(), dir: dir, now: now}
}

// Config returns the effective configuration.
func (r *Receiver) Config() Config { return r.cfg }

// Receive validates the upload carried by req and stores it. Nothing is written to the scratch
// directory unless the upload is a PDF within the size ceiling. The caller owns the returned file
// and must Release it.
func (r *Receiver) Receive(w http.ResponseWriter, req *http.Request) (*UploadedFile, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, ErrNoFileProvided
	}
	req.Body = http.MaxBytesReader(w, req.Body, r.cfg.MaxUploadBytes+multipartOverhead)

	if err := req.ParseMultipartForm(r.cfg.MaxUploadBytes + multipartOverhead); err != nil {
		if isBodyTooLarge(err) {
			return nil, ErrPayloadTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFileProvided, err)
	}
	defer func() {
		if req.MultipartForm != nil {
			_ = req.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := req.FormFile(r.cfg.FieldName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFileProvided, err)
	}
	defer file.Close()

	declared := header.Header.Get("Content-Type")
	if !AcceptMimeType(declared) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, declared)
	}
	if header.Size > r.cfg.MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	return r.store(req, header, declared, file)
}

func (r *Receiver) store(req *http.Request, header *multipart.FileHeader, declared string, file multipart.File) (*UploadedFile, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	detected := mimetype.Detect(head)
	if !detected.Is(MimePDF) {
		telemetry.Warn("upload.mime_mismatch", map[string]any{
			"declared":   declared,
			"detected":   detected.String(),
			"file_name":  header.Filename,
			"request_id": req.Header.Get("X-Request-Id"),
		})
	}

	body := io.MultiReader(bytes.NewReader(head), file)
	now := r.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := StoredName(header.Filename, now.Add(time.Duration(attempt)*time.Millisecond))
		path, size, err := r.dir.Save(req.Context(), name, body, r.cfg.MaxUploadBytes)
		switch {
		case err == nil:
			return &UploadedFile{
				OriginalName: header.Filename,
				StoredPath:   path,
				MimeType:     MimePDF,
				DetectedType: detected.String(),
				Size:         size,
				dir:          r.dir,
			}, nil
		case errors.Is(err, os.ErrExist):
			continue
		case errors.Is(err, scratch.ErrLimitExceeded):
			return nil, ErrPayloadTooLarge
		default:
			return nil, fmt.Errorf("store upload: %w", err)
		}
	}
	return nil, fmt.Errorf("store upload: no free name after %d attempts", maxNameAttempts)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
