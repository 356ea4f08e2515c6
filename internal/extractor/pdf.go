package extractor

import (
	"fmt"
	"strings"

	"rsc.io/pdf"

	"github.com/hansbricks/metascope/internal/metadata"
)

// PDFAdapter extracts the document information dictionary, page count and
// encryption status from PDF files. When ExtractText is set, the first page's
// text is included as a short preview.
type PDFAdapter struct {
	ExtractText bool
}

func (a *PDFAdapter) Domain() metadata.Domain {
	return metadata.DomainPDF
}

func (a *PDFAdapter) CanHandle(filePath string, mimeType string) bool {
	return mimeType == "application/pdf"
}

// Extract reads the trailer's Info dictionary. The underlying parser panics
// on malformed input, so panics are converted to ordinary adapter errors.
func (a *PDFAdapter) Extract(filePath string) (m *metadata.Mapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("failed to extract PDF metadata: %v", r)
		}
	}()

	r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF metadata: %w", err)
	}

	m = metadata.NewMapping()
	m.Set("pages", metadata.Int(r.NumPage()))
	m.Set("encrypted", metadata.Bool(!r.Trailer().Key("Encrypt").IsNull()))

	info := r.Trailer().Key("Info")
	if info.Kind() == pdf.Dict {
		for _, key := range info.Keys() {
			m.SetStr(key, pdfValueString(info.Key(key)))
		}
	}

	if a.ExtractText && r.NumPage() > 0 {
		if preview := pageTextPreview(r, 200); preview != "" {
			m.SetStr("text_preview", preview)
		}
	}
	return m, nil
}

func pdfValueString(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	default:
		return v.String()
	}
}

// pageTextPreview joins the first page's text runs, truncated to limit bytes.
func pageTextPreview(r *pdf.Reader, limit int) string {
	var sb strings.Builder
	for _, t := range r.Page(1).Content().Text {
		sb.WriteString(t.S)
	}
	text := sb.String()
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
