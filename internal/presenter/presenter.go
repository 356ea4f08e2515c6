package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/metadata"
)

// When a combined table grows past this many rows it is split into
// per-category tables.
const groupingThreshold = 20

// Presenter renders assembled records and their forensic highlights in one
// of the supported output formats.
type Presenter struct {
	cfg config.Config
	out io.Writer

	title     *color.Color
	header    *color.Color
	highlight *color.Color
	errColor  *color.Color
}

// New creates a presenter writing to out.
func New(cfg config.Config, out io.Writer) *Presenter {
	return &Presenter{
		cfg:       cfg,
		out:       out,
		title:     color.New(color.FgCyan, color.Bold),
		header:    color.New(color.FgGreen, color.Bold),
		highlight: color.New(color.FgMagenta, color.Bold),
		errColor:  color.New(color.FgRed, color.Bold),
	}
}

// Render displays one record in the configured format.
func (p *Presenter) Render(rec *metadata.Record) error {
	if rec.Err != "" {
		p.errColor.Fprintf(p.out, "Error: %s\n", rec.Err)
		return nil
	}
	if rec.DomainErr != "" {
		fmt.Fprintf(p.out, "Warning: %s\n", rec.DomainErr)
	}

	poi := metadata.Highlight(rec)

	switch p.cfg.Format {
	case "json":
		return p.renderJSON(rec)
	case "table":
		return p.renderTable(rec, poi)
	case "compact":
		return p.renderCompact(rec, poi)
	default:
		return fmt.Errorf("unknown output format: %s", p.cfg.Format)
	}
}

func (p *Presenter) renderJSON(rec *metadata.Record) error {
	data, err := json.MarshalIndent(rec.Canonical(), "", "    ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

func (p *Presenter) renderTable(rec *metadata.Record, poi *metadata.Mapping) error {
	m := rec.Canonical()

	name := canonicalStr(m, "file_name")
	fileType := canonicalStr(m, "file_type")
	size := canonicalStr(m, "human_size")
	p.title.Fprintf(p.out, "\n=== Metadata for %s (%s, %s) ===\n", name, fileType, size)

	if poi.Len() > 0 {
		p.highlight.Fprintln(p.out, "\nFORENSIC POINTS OF INTEREST:")
		p.printPOITable(poi)
		fmt.Fprintln(p.out)
	}

	rows := metadata.Flatten(m)
	if len(rows) > groupingThreshold {
		p.printGroupedRows(rows)
		return nil
	}
	p.printRowTable(rows)
	return nil
}

func (p *Presenter) printPOITable(poi *metadata.Mapping) {
	table := newTable(p.out)
	for _, key := range poi.Keys() {
		v, _ := poi.Get(key)
		table.Append([]string{key, poiValueString(v)})
	}
	table.Render()
}

// poiValueString renders highlight values: mappings as JSON, sequences one
// entry per line, scalars verbatim.
func poiValueString(v metadata.Value) string {
	switch v.Kind {
	case metadata.KindSequence:
		out := ""
		for i, e := range v.Seq {
			if i > 0 {
				out += "\n"
			}
			out += e.String()
		}
		return out
	default:
		return v.String()
	}
}

// printGroupedRows splits flattened rows into categories: a header row opens
// a category, everything else files under the first segment of its dotted
// path.
func (p *Presenter) printGroupedRows(rows []metadata.Row) {
	categories := SplitCategories(rows)
	for _, cat := range categories {
		if len(cat.Rows) == 0 {
			continue
		}
		p.header.Fprintf(p.out, "\n--- %s ---\n", cat.Name)
		p.printRowTable(cat.Rows)
	}
}

func (p *Presenter) printRowTable(rows []metadata.Row) {
	table := newTable(p.out)
	for _, row := range rows {
		if row.Header {
			table.Append([]string{"--- " + row.Key + " ---", ""})
			continue
		}
		table.Append([]string{row.Key, row.Value})
	}
	table.Render()
}

func (p *Presenter) renderCompact(rec *metadata.Record, poi *metadata.Mapping) error {
	m := rec.Canonical()

	parts := make([]string, 0, 3)
	for _, key := range []string{"file_name", "file_type", "human_size"} {
		if s := canonicalStr(m, key); s != "" {
			parts = append(parts, s)
		}
	}
	p.title.Fprintln(p.out, strings.Join(parts, " | "))

	if poi.Len() == 0 {
		return nil
	}
	p.highlight.Fprintln(p.out, "\nFORENSIC POINTS OF INTEREST:")
	for _, key := range poi.Keys() {
		v, _ := poi.Get(key)
		switch v.Kind {
		case metadata.KindMapping:
			p.header.Fprintf(p.out, "%s:\n", key)
			for _, k := range v.Map.Keys() {
				sv, _ := v.Map.Get(k)
				fmt.Fprintf(p.out, "  %s: %s\n", k, sv.String())
			}
		case metadata.KindSequence:
			p.header.Fprintf(p.out, "%s:\n", key)
			for _, e := range v.Seq {
				fmt.Fprintf(p.out, "  %s\n", e.String())
			}
		default:
			fmt.Fprintf(p.out, "%s: %s\n", key, v.String())
		}
	}
	return nil
}

// Summary prints the one-line directory summary for a record, marking files
// with forensic interest.
func (p *Presenter) Summary(rec *metadata.Record) {
	m := rec.Canonical()
	line := fmt.Sprintf("%s (%s, %s)",
		orUnknown(canonicalStr(m, "file_name")),
		orUnknown(canonicalStr(m, "file_type")),
		orUnknown(canonicalStr(m, "human_size")))

	if metadata.Highlight(rec).Len() > 0 {
		p.highlight.Fprintf(p.out, "%s - FORENSIC INTEREST\n", line)
		return
	}
	fmt.Fprintln(p.out, line)
}

// Category is a named run of flattened rows for segmented table display.
type Category struct {
	Name string
	Rows []metadata.Row
}

// SplitCategories groups flattened rows by their top-level key: a header row
// opens the category named by its first path segment, data rows file under
// the first segment of their dotted path ("General" when the key has none).
// Category order follows first appearance.
func SplitCategories(rows []metadata.Row) []Category {
	var cats []Category
	index := make(map[string]int)
	ensure := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		cats = append(cats, Category{Name: name})
		index[name] = len(cats) - 1
		return len(cats) - 1
	}

	current := "General"
	for _, row := range rows {
		if row.Header {
			name, _, _ := strings.Cut(row.Key, ".")
			current = name
			ensure(name)
			continue
		}
		name, _, hasDot := strings.Cut(row.Key, ".")
		if !hasDot {
			name = current
		}
		i := ensure(name)
		cats[i].Rows = append(cats[i].Rows, row)
	}
	return cats
}

func newTable(out io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Property", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func canonicalStr(m *metadata.Mapping, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
