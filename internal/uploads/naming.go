package uploads

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pdf2docx/internal/shared/util"
)

const (
	// MimePDF is the only content type the receiver accepts.
	MimePDF = "application/pdf"

	fallbackName = "upload.pdf"
	maxNameBytes = 180
)

// StoredName returns the scratch file name for an upload: the millisecond timestamp,
// a dash, and the sanitized original name.
func StoredName(original string, now time.Time) string {
	name := truncateName(util.SanitizeFileNameOr(original, fallbackName))
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}

// AcceptMimeType reports whether a declared part Content-Type is PDF. Parameters and case are ignored.
func AcceptMimeType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return strings.EqualFold(mediaType, MimePDF)
}

func truncateName(name string) string {
	if len(name) <= maxNameBytes {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	base := name[:maxNameBytes-len(ext)]
	for len(base) > 0 && !utf8.ValidString(base) {
		base = base[:len(base)-1]
	}
	return base + ext
}
