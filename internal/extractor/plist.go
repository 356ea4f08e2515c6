package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/hansbricks/metascope/internal/metadata"
)

// PlistAdapter extracts Apple property lists (XML or binary), common macOS
// forensic artifacts such as Info.plist and preference files.
type PlistAdapter struct{}

func (a *PlistAdapter) Domain() metadata.Domain {
	return metadata.DomainPlist
}

func (a *PlistAdapter) CanHandle(filePath string, mimeType string) bool {
	if mimeType == "application/x-plist" {
		return true
	}
	return strings.ToLower(filepath.Ext(filePath)) == ".plist"
}

func (a *PlistAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var data any
	if err := plist.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse property list: %w", err)
	}

	v := metadata.FromAny(normalizePlist(data))
	if v.Kind == metadata.KindMapping {
		return v.Map, nil
	}
	m := metadata.NewMapping()
	m.Set("value", v)
	return m, nil
}

// normalizePlist rewrites plist decoder types into plain maps and slices so
// FromAny can convert them.
func normalizePlist(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizePlist(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, normalizePlist(e))
		}
		return out
	case []byte:
		return fmt.Sprintf("<binary data: %d bytes>", len(t))
	default:
		return t
	}
}
