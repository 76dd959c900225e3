package convert

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"pdf2docx/internal/docx"
	"pdf2docx/internal/extract"
	"pdf2docx/internal/shared/metrics"
	"pdf2docx/internal/shared/telemetry"
	"pdf2docx/internal/shared/util"
	"pdf2docx/internal/uploads"
)

// Builder turns plain text into a document.
type Builder interface {
	Build(text string, opts docx.Options) ([]byte, error)
}

// Config holds document formatting applied to every conversion.
type Config struct {
	FontSizeHalfPoints int
}

// Result is the outcome of one conversion.
type Result struct {
	Document []byte
	Text     string
	Duration time.Duration
}

// Service sequences extraction and document building for one upload at a time.
type Service struct {
	cfg       Config
	extractor extract.Extractor
	builder   Builder
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(cfg Config, extractor extract.Extractor, builder Builder) *Service {
	if cfg.FontSizeHalfPoints == 0 {
		cfg.FontSizeHalfPoints = docx.DefaultFontSize
	}
	return &Service{cfg: cfg, extractor: extractor, builder: builder, now: time.Now}
}

// Convert reads the stored upload and converts it. It does not release the upload.
func (s *Service) Convert(ctx context.Context, upload *uploads.UploadedFile) (*Result, error) {
	data, err := upload.ReadAll()
	if err != nil {
		metrics.IncConversionStarted()
		return nil, s.fail(ctx, StageRead, err, 0, s.now())
	}
	return s.ConvertBytes(ctx, data, titleFrom(upload.OriginalName))
}

// ConvertBytes extracts the text of data and builds a document from it.
// Each call performs exactly one extraction and at most one build.
func (s *Service) ConvertBytes(ctx context.Context, data []byte, title string) (*Result, error) {
	start := s.now()
	metrics.IncConversionStarted()

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, s.fail(ctx, StageExtract, err, len(data), start)
	}

	doc, err := s.builder.Build(text, docx.Options{
		FontSizeHalfPoints: s.cfg.FontSizeHalfPoints,
		Title:              title,
		Created:            start,
	})
	if err != nil {
		return nil, s.fail(ctx, StageBuild, err, len(data), start)
	}

	elapsed := s.now().Sub(start)
	metrics.IncConversionCompleted()
	metrics.ObserveConversionDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("convert.complete", map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"bytes_in":       len(data),
		"bytes_out":      len(doc),
		"text_chars":     len([]rune(text)),
		"content_sha256": util.ContentDigest(data),
		"duration_ms":    float64(elapsed.Microseconds()) / 1000.0,
	})

	return &Result{Document: doc, Text: text, Duration: elapsed}, nil
}

func (s *Service) fail(ctx context.Context, stage Stage, cause error, bytesIn int, start time.Time) error {
	elapsed := s.now().Sub(start)
	metrics.IncConversionFailed(string(stage))
	metrics.ObserveConversionDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Error("convert.failed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"stage":       string(stage),
		"bytes_in":    bytesIn,
		"error":       cause.Error(),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return &ConversionError{Stage: stage, Err: cause}
}

func titleFrom(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
