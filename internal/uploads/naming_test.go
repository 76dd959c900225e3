package uploads

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStoredName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	cases := []struct {
		original string
		want     string
	}{
		{original: "report.pdf", want: "1700000000123-report.pdf"},
		{original: "relatório final.pdf", want: "1700000000123-relatório final.pdf"},
		{original: "../../etc/passwd", want: "1700000000123-passwd"},
		{original: `C:\Users\ana\cv.pdf`, want: "1700000000123-cv.pdf"},
		{original: "", want: "1700000000123-upload.pdf"},
		{original: "..", want: "1700000000123-upload.pdf"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StoredName(tc.original, now), "original %q", tc.original)
	}
}

func TestStoredNameDiffersByTimestamp(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a := StoredName("a.pdf", now)
	b := StoredName("a.pdf", now.Add(time.Millisecond))
	assert.NotEqual(t, a, b)
}

func TestStoredNameTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("ç", 200) + ".pdf"
	got := StoredName(long, time.UnixMilli(1))

	name := strings.TrimPrefix(got, "1-")
	assert.LessOrEqual(t, len(name), maxNameBytes)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.True(t, utf8.ValidString(name))
}

func TestAcceptMimeType(t *testing.T) {
	accepted := []string{"application/pdf", "Application/PDF", "application/pdf; charset=binary", " application/pdf "}
	for _, ct := range accepted {
		assert.True(t, AcceptMimeType(ct), "expected %q accepted", ct)
	}
	rejected := []string{"", "image/png", "application/octet-stream", "application/pdfx", "text/pdf"}
	for _, ct := range rejected {
		assert.False(t, AcceptMimeType(ct), "expected %q rejected", ct)
	}
}
