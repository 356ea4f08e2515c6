package detector

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hansbricks/metascope/internal/logger"
)

// Detect determines a human-readable type label and a MIME type for a file.
// Content sniffing is tried first; when it fails the extension table is
// consulted. Detection never fails: an unresolvable file yields an empty
// MIME string and an "Unknown (ext)" label, which downstream code tolerates.
func Detect(filePath string) (fileType, mimeType string) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	if mt, err := mimetype.DetectFile(filePath); err == nil {
		mimeType = mt.String()
		// Strip parameters like "; charset=utf-8" so dispatch sees a bare type.
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}
	} else {
		logger.Debugf("Content detection failed for %s: %v", filePath, err)
		mimeType = mime.TypeByExtension("." + ext)
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}
	}

	return humanLabel(mimeType, ext), mimeType
}

// humanLabel builds a readable label from a MIME type, falling back to the
// extension when nothing was detected.
func humanLabel(mimeType, ext string) string {
	if mimeType == "" {
		if ext == "" {
			return "Unknown"
		}
		return "Unknown (" + ext + ")"
	}
	main, sub, _ := strings.Cut(mimeType, "/")
	label := capitalize(main)
	if main == "application" && sub != "" {
		label = label + "/" + sub
	}
	return label
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
