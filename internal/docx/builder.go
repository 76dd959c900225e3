// Package docx writes and reads minimal WordprocessingML packages.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ContentType is the MIME type of a .docx package.
	ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	// DefaultFontSize is 12pt expressed in half-points.
	DefaultFontSize = 24

	maxFontSize = 3276
	application = "pdf2docx"
)

// ErrInvalidOptions is returned when build options are out of range.
var ErrInvalidOptions = errors.New("docx: invalid options")

// Options controls the generated document.
type Options struct {
	// FontSizeHalfPoints is the run size in half-points; zero means DefaultFontSize.
	FontSizeHalfPoints int
	// Title is written to the core properties when set.
	Title string
	// Created stamps the core properties and zip entries; zero means now.
	Created time.Time
}

// Builder produces a document holding the text as one paragraph with one run.
type Builder struct{}

// NewBuilder constructs a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the .docx bytes for text. Newlines become line breaks and tabs become
// tab stops inside the single run; characters XML cannot carry are dropped.
func (b *Builder) Build(text string, opts Options) ([]byte, error) {
	size := opts.FontSizeHalfPoints
	if size == 0 {
		size = DefaultFontSize
	}
	if size < 1 || size > maxFontSize {
		return nil, fmt.Errorf("%w: font size %d", ErrInvalidOptions, size)
	}
	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	created = created.UTC().Truncate(time.Second)

	parts := []struct {
		name    string
		content string
	}{
		{name: "[Content_Types].xml", content: contentTypesXML},
		{name: "_rels/.rels", content: packageRelsXML},
		{name: "docProps/app.xml", content: appXML},
		{name: "docProps/core.xml", content: coreXML(opts.Title, created)},
		{name: "word/_rels/document.xml.rels", content: documentRelsXML},
		{name: "word/document.xml", content: documentXML(text, size)},
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	for _, part := range parts {
		header := &zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: created,
		}
		dst, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("docx: create %s: %w", part.name, err)
		}
		if _, err := dst.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("docx: close: %w", err)
	}
	return output.Bytes(), nil
}

func documentXML(text string, size int) string {
	var buf strings.Builder
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body><w:p><w:r>`)
	fmt.Fprintf(&buf, `<w:rPr><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>`, size, size)
	writeRunContent(&buf, cleanText(text))
	buf.WriteString(`</w:r></w:p>`)
	buf.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>`)
	buf.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>`)
	buf.WriteString(`</w:sectPr></w:body></w:document>`)
	return buf.String()
}

// writeRunContent emits w:t segments separated by w:br and w:tab. Empty text still gets one w:t.
func writeRunContent(buf *strings.Builder, text string) {
	var segment strings.Builder
	wrote := false
	flush := func() {
		if segment.Len() == 0 {
			return
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(segment.String()))
		buf.WriteString(`</w:t>`)
		segment.Reset()
		wrote = true
	}
	for _, r := range text {
		switch r {
		case '\n':
			flush()
			buf.WriteString(`<w:br/>`)
			wrote = true
		case '\t':
			flush()
			buf.WriteString(`<w:tab/>`)
			wrote = true
		default:
			segment.WriteRune(r)
		}
	}
	flush()
	if !wrote {
		buf.WriteString(`<w:t xml:space="preserve"></w:t>`)
	}
}

// cleanText normalizes line endings and drops runes that are not legal XML 1.0 characters.
func cleanText(text string) string {
	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		case r == 0xFFFE || r == 0xFFFF:
			return -1
		}
		return r
	}, text)
}

func coreXML(title string, created time.Time) string {
	var buf strings.Builder
	buf.WriteString(xml.Header)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	buf.WriteString(` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"`)
	buf.WriteString(` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if title = cleanText(strings.TrimSpace(title)); title != "" {
		buf.WriteString(`<dc:title>`)
		_ = xml.EscapeText(&buf, []byte(title))
		buf.WriteString(`</dc:title>`)
	}
	buf.WriteString(`<dc:creator>` + application + `</dc:creator>`)
	stamp := created.Format(time.RFC3339)
	buf.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>`)
	buf.WriteString(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>`)
	buf.WriteString(`</cp:coreProperties>`)
	return buf.String()
}

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

const appXML = xml.Header +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>` + application + `</Application>` +
	`</Properties>`
