package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/metadata"
)

func TestRegistryResolvesByDomain(t *testing.T) {
	r := NewRegistry(config.Config{})

	cases := []struct {
		path string
		mime string
		want metadata.Domain
	}{
		{"report.pdf", "application/pdf", metadata.DomainPDF},
		{"report.docx", mimeDOCX, metadata.DomainDocument},
		{"legacy.doc", mimeLegacyDoc, metadata.DomainDocument},
		{"pkg.rpm", "application/x-rpm", metadata.DomainPackage},
		{"pkg.deb", "application/vnd.debian.binary-package", metadata.DomainPackage},
		{"Info.plist", "application/x-plist", metadata.DomainPlist},
		{"photo.jpg", "image/jpeg", metadata.DomainImage},
		{"song.mp3", "audio/mpeg", metadata.DomainAudio},
	}
	for _, tc := range cases {
		a := r.Resolve(tc.path, tc.mime)
		require.NotNil(t, a, "no adapter for %s", tc.path)
		require.Equal(t, tc.want, a.Domain(), "wrong adapter for %s", tc.path)
	}
}

func TestRegistryResolvesByExtensionAlone(t *testing.T) {
	r := NewRegistry(config.Config{})

	a := r.Resolve("prefs.plist", "")
	require.NotNil(t, a)
	require.Equal(t, metadata.DomainPlist, a.Domain())

	a = r.Resolve("pkg.deb", "application/octet-stream")
	require.NotNil(t, a)
	require.Equal(t, metadata.DomainPackage, a.Domain())
}

// A zip container claiming to be a word processing document must reach the
// document adapter, not a generic handler.
func TestRegistrySpecializedBeforeGeneric(t *testing.T) {
	r := NewRegistry(config.Config{})
	a := r.Resolve("report.docx", mimeDOCX)
	require.Equal(t, metadata.DomainDocument, a.Domain())
}

func TestRegistryUnknownTypeResolvesNil(t *testing.T) {
	r := NewRegistry(config.Config{})
	require.Nil(t, r.Resolve("blob.bin", "application/octet-stream"))
	require.Nil(t, r.Resolve("noext", ""))
}
