package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
)

// Fields exiftool reports about itself rather than the file.
var exifToolNoiseKeys = []string{"SourceFile", "ExifToolVersion", "Directory"}

// ExifToolAdapter shells out to exiftool and organizes its output into the
// grouped schema (group name -> tag -> value). The child process runs without
// a timeout; a hung tool blocks the pipeline, which is a documented
// limitation of the sequential model.
type ExifToolAdapter struct{}

func (a *ExifToolAdapter) Domain() metadata.Domain {
	return metadata.DomainExternal
}

// CanHandle is unconditional: the external tool is the all-purpose fallback.
func (a *ExifToolAdapter) CanHandle(filePath string, mimeType string) bool {
	return true
}

// Available reports whether exiftool is installed.
func (a *ExifToolAdapter) Available() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

func (a *ExifToolAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	if !a.Available() {
		return nil, errors.New("ExifTool not available on the system")
	}

	cmd := exec.Command("exiftool", "-j", "-a", "-u", "-G1", filePath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("ExifTool error: %s", msg)
	}

	m, err := parseToolJSON(stdout.Bytes())
	if err != nil {
		logger.Debugf("ExifTool JSON parse failed, using line fallback: %v", err)
		return parseToolLines(stdout.String()), nil
	}
	return m, nil
}

// parseToolJSON decodes exiftool's JSON array (one object per file) and
// organizes "Group:Tag" keys into nested groups. Keys without a group land in
// "General".
func parseToolJSON(data []byte) (*metadata.Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected JSON array, got %v", tok)
	}
	if !dec.More() {
		return metadata.NewMapping(), nil
	}
	flat, err := metadata.DecodeMapping(dec)
	if err != nil {
		return nil, err
	}

	for _, key := range exifToolNoiseKeys {
		flat.Delete(key)
	}

	organized := metadata.NewMapping()
	for _, key := range flat.Keys() {
		v, _ := flat.Get(key)
		group, tag, hasGroup := strings.Cut(key, ":")
		if !hasGroup {
			group, tag = "General", key
		}
		g, ok := organized.Child(group)
		if !ok {
			g = metadata.NewMapping()
			organized.Set(group, metadata.Map(g))
		}
		g.Set(tag, v)
	}
	return organized, nil
}

// parseToolLines is the best-effort fallback for non-JSON output: sections
// are delimited by "--Group--" header lines, entries are "key: value" pairs.
func parseToolLines(output string) *metadata.Mapping {
	m := metadata.NewMapping()
	current := metadata.NewMapping()
	m.Set("General", metadata.Map(current))

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "--") && strings.HasSuffix(line, "--") {
			group := strings.TrimSpace(strings.Trim(line, "-"))
			if g, ok := m.Child(group); ok {
				current = g
			} else {
				current = metadata.NewMapping()
				m.Set(group, metadata.Map(current))
			}
			continue
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			current.SetStr(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	return m
}
