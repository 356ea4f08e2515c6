package presenter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/metadata"
)

func init() {
	color.NoColor = true
}

func pdfRecord() *metadata.Record {
	base := metadata.NewMapping()
	base.SetStr("file_name", "doc.pdf")
	base.SetStr("human_size", "2.0 kB")
	base.SetStr("file_type", "Application/pdf")
	meta := metadata.NewMapping()
	meta.SetStr("Author", "Jane Doe")
	return &metadata.Record{Base: base, Domain: metadata.DomainPDF, Meta: meta}
}

func render(t *testing.T, format string, rec *metadata.Record) string {
	t.Helper()
	var buf bytes.Buffer
	p := New(config.Config{Format: format}, &buf)
	require.NoError(t, p.Render(rec))
	return buf.String()
}

func TestRenderTable(t *testing.T) {
	out := render(t, "table", pdfRecord())

	require.Contains(t, out, "=== Metadata for doc.pdf (Application/pdf, 2.0 kB) ===")
	require.Contains(t, out, "FORENSIC POINTS OF INTEREST:")
	require.Contains(t, out, "Jane Doe")
	require.Contains(t, out, "pdf_metadata.Author")
}

func TestRenderJSONIsCanonical(t *testing.T) {
	out := render(t, "json", pdfRecord())

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Contains(t, parsed, "file_name")
	require.Contains(t, parsed, "pdf_metadata")
}

func TestRenderCompact(t *testing.T) {
	out := render(t, "compact", pdfRecord())

	require.Contains(t, out, "doc.pdf | Application/pdf | 2.0 kB")
	require.Contains(t, out, "FORENSIC POINTS OF INTEREST:")
	require.Contains(t, out, "Author: Jane Doe")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	p := New(config.Config{Format: "yaml"}, &buf)
	require.Error(t, p.Render(pdfRecord()))
}

func TestRenderErrorRecordShortCircuits(t *testing.T) {
	base := metadata.NewMapping()
	base.SetStr("file_name", "gone.bin")
	rec := &metadata.Record{Base: base, Err: "File not found: gone.bin"}

	out := render(t, "table", rec)
	require.Contains(t, out, "Error: File not found: gone.bin")
	require.NotContains(t, out, "=== Metadata for")
}

func TestRenderDomainErrorIsWarning(t *testing.T) {
	base := metadata.NewMapping()
	base.SetStr("file_name", "odd.pdf")
	rec := &metadata.Record{Base: base, Domain: metadata.DomainPDF, DomainErr: "malformed xref table"}

	out := render(t, "table", rec)
	require.Contains(t, out, "Warning: malformed xref table")
	require.Contains(t, out, "=== Metadata for odd.pdf")
}

func TestSummaryMarksForensicInterest(t *testing.T) {
	var buf bytes.Buffer
	p := New(config.Config{}, &buf)

	p.Summary(pdfRecord())
	require.Contains(t, buf.String(), "doc.pdf (Application/pdf, 2.0 kB) - FORENSIC INTEREST")

	buf.Reset()
	base := metadata.NewMapping()
	base.SetStr("file_name", "plain.txt")
	p.Summary(&metadata.Record{Base: base})
	require.Equal(t, "plain.txt (Unknown, Unknown)\n", buf.String())
}

func TestSplitCategories(t *testing.T) {
	rows := []metadata.Row{
		{Key: "file_name", Value: "a.jpg"},
		{Key: "file_size", Value: "10"},
		{Key: "image_metadata", Header: true},
		{Key: "image_metadata.EXIF", Header: true},
		{Key: "image_metadata.EXIF.Make", Value: "Apple"},
	}

	cats := SplitCategories(rows)
	require.Len(t, cats, 2)

	require.Equal(t, "General", cats[0].Name)
	require.Len(t, cats[0].Rows, 2)

	require.Equal(t, "image_metadata", cats[1].Name)
	require.Len(t, cats[1].Rows, 1)
	require.Equal(t, "image_metadata.EXIF.Make", cats[1].Rows[0].Key)
}

func TestSplitCategoriesGroupedSchema(t *testing.T) {
	rows := []metadata.Row{
		{Key: "EXIF", Header: true},
		{Key: "Make", Value: "Apple"},
		{Key: "General", Header: true},
		{Key: "file_name", Value: "a.jpg"},
	}

	cats := SplitCategories(rows)
	require.Len(t, cats, 2)
	require.Equal(t, "EXIF", cats[0].Name)
	require.Equal(t, "Make", cats[0].Rows[0].Key)
	require.Equal(t, "General", cats[1].Name)
	require.Equal(t, "file_name", cats[1].Rows[0].Key)
}
