package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
)

// Save writes records to a file, choosing the format by extension: .json is
// the lossless structured export, .txt/.csv/.md get the line-oriented dump,
// anything else defaults to JSON.
func Save(filePath string, records []*metadata.Record) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".txt", ".csv", ".md":
		err = WriteText(f, records)
	default:
		err = WriteJSON(f, records)
	}
	if err != nil {
		return err
	}
	logger.Infof("Results saved to %s", filePath)
	return nil
}

// WriteJSON emits the lossless structured export: the canonical map of a
// single record, or an array of canonical maps for a batch. Key order is
// preserved so a re-parse yields an equal record.
func WriteJSON(w io.Writer, records []*metadata.Record) error {
	var payload any
	if len(records) == 1 {
		payload = records[0].Canonical()
	} else {
		maps := make([]*metadata.Mapping, 0, len(records))
		for _, rec := range records {
			maps = append(maps, rec.Canonical())
		}
		payload = maps
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(payload)
}

// ReadJSON re-parses a lossless export produced by WriteJSON.
func ReadJSON(r io.Reader) ([]*metadata.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var maps []*metadata.Mapping
		if err := json.Unmarshal(trimmed, &maps); err != nil {
			return nil, err
		}
		records := make([]*metadata.Record, 0, len(maps))
		for _, m := range maps {
			records = append(records, metadata.FromCanonical(m))
		}
		return records, nil
	}

	m := metadata.NewMapping()
	if err := json.Unmarshal(trimmed, m); err != nil {
		return nil, err
	}
	return []*metadata.Record{metadata.FromCanonical(m)}, nil
}

// WriteText emits the line-oriented dump: a header line per file, section
// sub-headers, key: value rows, and a blank line separating records. Values
// are coerced to strings, so this export is lossy by design.
func WriteText(w io.Writer, records []*metadata.Record) error {
	for _, rec := range records {
		m := rec.Canonical()

		name := "Unknown"
		if v, ok := m.Get("file_name"); ok {
			name = v.String()
		}
		if _, err := fmt.Fprintf(w, "=== %s ===\n", name); err != nil {
			return err
		}

		for _, key := range m.Keys() {
			v, _ := m.Get(key)
			if v.Kind == metadata.KindMapping {
				fmt.Fprintf(w, "\n--- %s ---\n", key)
				for _, sub := range v.Map.Keys() {
					sv, _ := v.Map.Get(sub)
					fmt.Fprintf(w, "%s: %s\n", sub, sv.String())
				}
				continue
			}
			fmt.Fprintf(w, "%s: %s\n", key, v.String())
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
