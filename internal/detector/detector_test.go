package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestDetectByContent(t *testing.T) {
	// Extension lies; content wins.
	path := filepath.Join(t.TempDir(), "image.dat")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	fileType, mimeType := Detect(path)
	require.Equal(t, "image/png", mimeType)
	require.Equal(t, "Image", fileType)
}

func TestDetectTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text content\n"), 0o644))

	fileType, mimeType := Detect(path)
	// Charset parameters are stripped for dispatch.
	require.Equal(t, "text/plain", mimeType)
	require.Equal(t, "Text", fileType)
}

func TestDetectFallsBackToExtension(t *testing.T) {
	fileType, mimeType := Detect(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Equal(t, "application/pdf", mimeType)
	require.Equal(t, "Application/pdf", fileType)
}

func TestDetectNeverFails(t *testing.T) {
	fileType, mimeType := Detect(filepath.Join(t.TempDir(), "missing"))
	require.Empty(t, mimeType)
	require.Equal(t, "Unknown", fileType)

	fileType, _ = Detect(filepath.Join(t.TempDir(), "missing.zzz9"))
	require.Equal(t, "Unknown (zzz9)", fileType)
}
