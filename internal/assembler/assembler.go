package assembler

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/sha3"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/detector"
	"github.com/hansbricks/metascope/internal/extractor"
	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
)

const timeLayout = "2006-01-02 15:04:05"

// Assembler produces exactly one metadata record per file: base filesystem
// attributes merged with the output of the adapter selected for the file's
// detected type.
type Assembler struct {
	cfg      config.Config
	registry *extractor.Registry
	external *extractor.ExifToolAdapter
}

// New creates an assembler with the full adapter registry.
func New(cfg config.Config) *Assembler {
	return &Assembler{
		cfg:      cfg,
		registry: extractor.NewRegistry(cfg),
		external: &extractor.ExifToolAdapter{},
	}
}

// Assemble builds the record for one file. Adapter failures surface as a
// domain-scoped error on the record and never abort assembly; only a
// filesystem failure yields a record-level error.
func (a *Assembler) Assemble(filePath string) *metadata.Record {
	info, err := os.Stat(filePath)
	if err != nil {
		return errorRecord(filePath, fmt.Sprintf("File not found: %s", filePath))
	}
	if !info.Mode().IsRegular() {
		return errorRecord(filePath, fmt.Sprintf("Not a file: %s", filePath))
	}

	fileType, mimeType := detector.Detect(filePath)
	base := a.baseAttributes(filePath, info, fileType, mimeType)

	if a.cfg.ForceExifTool {
		return a.assembleForced(filePath, base)
	}

	rec := &metadata.Record{Base: base, Domain: metadata.DomainNone}

	adapter := a.registry.Resolve(filePath, mimeType)
	if adapter == nil {
		if a.cfg.UseExifTool && a.external.Available() {
			adapter = a.external
		} else {
			logger.Debugf("No metadata extractor for MIME type: %q (%s)", mimeType, filePath)
			return rec
		}
	}

	logger.Infof("Extracting %s metadata from %s", adapter.Domain(), filePath)
	meta, err := adapter.Extract(filePath)
	if err != nil {
		logger.Warningf("%s extraction failed for %s: %v", adapter.Domain(), filePath, err)
		rec.Domain = adapter.Domain()
		rec.DomainErr = err.Error()
		return rec
	}
	rec.Domain = adapter.Domain()
	rec.Meta = meta
	return rec
}

// assembleForced runs the external tool regardless of type and merges base
// attributes under the synthetic "General" group, producing a grouped-schema
// record. A tool failure degrades to a flat record with base attributes and a
// domain error.
func (a *Assembler) assembleForced(filePath string, base *metadata.Mapping) *metadata.Record {
	logger.Infof("Using ExifTool for metadata extraction from %s", filePath)
	grouped, err := a.external.Extract(filePath)
	if err != nil {
		logger.Warningf("ExifTool extraction failed for %s: %v", filePath, err)
		return &metadata.Record{
			Base:      base,
			Domain:    metadata.DomainExternal,
			DomainErr: err.Error(),
		}
	}
	mergeBaseIntoGrouped(grouped, base)
	return &metadata.Record{
		Base:    base,
		Domain:  metadata.DomainExternal,
		Meta:    grouped,
		Grouped: true,
	}
}

// baseAttributes builds the fixed attribute map. Computed once per record
// and never mutated afterwards.
func (a *Assembler) baseAttributes(filePath string, info os.FileInfo, fileType, mimeType string) *metadata.Mapping {
	m := metadata.NewMapping()
	m.SetStr("file_name", filepath.Base(filePath))
	m.SetStr("file_path", absPath(filePath))
	m.Set("file_size", metadata.Int(int(info.Size())))
	m.SetStr("human_size", humanize.Bytes(uint64(info.Size())))

	ts := times.Get(info)
	created := ts.ModTime()
	if ts.HasBirthTime() {
		created = ts.BirthTime()
	} else if ts.HasChangeTime() {
		created = ts.ChangeTime()
	}
	m.SetStr("created", created.Format(timeLayout))
	m.SetStr("modified", ts.ModTime().Format(timeLayout))
	m.SetStr("accessed", ts.AccessTime().Format(timeLayout))

	m.SetStr("file_type", fileType)
	m.SetStr("mime_type", mimeType)

	if a.cfg.ComputeHash {
		if sum, err := hashFile(filePath); err == nil {
			m.SetStr("sha3_256", sum)
		} else {
			logger.Warningf("Hashing failed for %s: %v", filePath, err)
		}
	}
	return m
}

// mergeBaseIntoGrouped adds base attributes to a grouped record's "General"
// group. Tool-provided values win: timestamps are added only when the File
// group carries none of its own, and type/MIME only when FileType is absent.
// Existing General keys are never overwritten.
func mergeBaseIntoGrouped(grouped *metadata.Mapping, base *metadata.Mapping) {
	general, ok := grouped.Child("General")
	if !ok {
		general = metadata.NewMapping()
		grouped.Set("General", metadata.Map(general))
	}

	fileGroup, _ := grouped.Child("File")
	hasTimes := fileGroup != nil &&
		(fileGroup.Has("FileSize") || fileGroup.Has("FileModifyDate") || fileGroup.Has("FileAccessDate"))
	hasType := fileGroup != nil && fileGroup.Has("FileType")

	for _, key := range base.Keys() {
		switch key {
		case "created", "modified", "accessed":
			if hasTimes {
				continue
			}
		case "file_type", "mime_type":
			if hasType {
				continue
			}
		}
		if general.Has(key) {
			continue
		}
		v, _ := base.Get(key)
		general.Set(key, v)
	}
}

// errorRecord builds a record for a file that could not be accessed. Name
// and path are still reported so batch output stays attributable.
func errorRecord(filePath, msg string) *metadata.Record {
	base := metadata.NewMapping()
	base.SetStr("file_name", filepath.Base(filePath))
	base.SetStr("file_path", absPath(filePath))
	return &metadata.Record{Base: base, Err: msg}
}

func absPath(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return filePath
	}
	return abs
}

// hashFile computes the SHA3-256 digest of a file's contents.
func hashFile(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
