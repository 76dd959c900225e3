package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadablePDF is returned when the bytes cannot be parsed as a PDF document.
var ErrUnreadablePDF = errors.New("unreadable pdf")

// Extractor turns document bytes into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Func adapts a plain function to the Extractor interface.
type Func func(ctx context.Context, data []byte) (string, error)

// ExtractText calls f.
func (f Func) ExtractText(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// PDFExtractor extracts text with github.com/ledongthuc/pdf.
// A positive Timeout bounds each extraction; zero leaves it unbounded.
type PDFExtractor struct {
	Timeout time.Duration
}

// NewPDFExtractor constructs a PDFExtractor.
func NewPDFExtractor(timeout time.Duration) *PDFExtractor {
	return &PDFExtractor{Timeout: timeout}
}

// ExtractText returns the document text with surrounding whitespace trimmed.
// A document without pages yields an empty string and no error.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	if ctx.Done() == nil {
		return extractPDF(data)
	}

	type result struct {
		text string
		err  error
	}
	// Buffered so the worker can finish and exit after the caller gave up.
	done := make(chan result, 1)
	go func() {
		text, err := extractPDF(data)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("extract pdf: %w", ctx.Err())
	}
}

func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrUnreadablePDF, rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	if pdfReader.NumPage() == 0 {
		return "", nil
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
