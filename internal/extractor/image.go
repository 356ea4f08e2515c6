package extractor

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
)

// ImageAdapter extracts dimensions and EXIF data from image files. GPS tags
// are collected into a GPSInfo sub-map so the highlighter can surface the
// location block whole.
type ImageAdapter struct{}

func (a *ImageAdapter) Domain() metadata.Domain {
	return metadata.DomainImage
}

func (a *ImageAdapter) CanHandle(filePath string, mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func (a *ImageAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := metadata.NewMapping()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		// Decodable EXIF may still exist in formats stdlib can't size (TIFF).
		logger.Debugf("Image config decode failed for %s: %v", filePath, err)
	} else {
		m.SetStr("format", strings.ToUpper(format))
		m.SetStr("size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
		m.Set("width", metadata.Int(cfg.Width))
		m.Set("height", metadata.Int(cfg.Height))
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	x, err := exif.Decode(f)
	if err != nil {
		if m.Len() == 0 {
			return nil, fmt.Errorf("failed to extract image metadata: %w", err)
		}
		return m, nil
	}

	w := &exifWalker{tags: metadata.NewMapping(), gps: metadata.NewMapping()}
	if err := x.Walk(w); err != nil {
		logger.Debugf("EXIF walk error for %s: %v", filePath, err)
	}
	if w.gps.Len() > 0 {
		w.tags.Set("GPSInfo", metadata.Map(w.gps))
	}
	if w.tags.Len() > 0 {
		m.Set("EXIF", metadata.Map(w.tags))
	}
	return m, nil
}

// exifWalker accumulates decoded tags, splitting GPS fields into their own
// sub-map.
type exifWalker struct {
	tags *metadata.Mapping
	gps  *metadata.Mapping
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value := tagString(tag)
	if strings.HasPrefix(string(name), "GPS") {
		w.gps.SetStr(string(name), value)
	} else {
		w.tags.SetStr(string(name), value)
	}
	return nil
}

func tagString(tag *tiff.Tag) string {
	if s, err := tag.StringVal(); err == nil {
		return strings.TrimRight(s, "\x00")
	}
	return tag.String()
}
