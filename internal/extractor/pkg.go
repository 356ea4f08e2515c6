package extractor

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/cavaliergopher/rpm"
	"github.com/klauspost/compress/zstd"
	"github.com/xi2/xz"

	"github.com/hansbricks/metascope/internal/metadata"
)

// PackageAdapter extracts build provenance from Linux software packages:
// RPM headers (packager, build host, build time) and DEB control paragraphs
// (maintainer, version). Who built a package and where is routinely of
// forensic interest.
type PackageAdapter struct{}

func (a *PackageAdapter) Domain() metadata.Domain {
	return metadata.DomainPackage
}

func (a *PackageAdapter) CanHandle(filePath string, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".rpm", ".deb":
		return true
	}
	lower := strings.ToLower(mimeType)
	return strings.Contains(lower, "application/x-rpm") ||
		strings.Contains(lower, "application/vnd.debian.binary-package") ||
		strings.Contains(lower, "application/x-debian-package")
}

func (a *PackageAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	if strings.ToLower(filepath.Ext(filePath)) == ".rpm" ||
		looksLikeRPM(filePath) {
		return extractRPM(filePath)
	}
	return extractDEB(filePath)
}

var rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

func looksLikeRPM(filePath string) bool {
	f, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, rpmMagic)
}

func extractRPM(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pkg, err := rpm.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM headers: %w", err)
	}

	m := metadata.NewMapping()
	m.SetStr("package_name", pkg.Name())
	m.SetStr("package_version", pkg.Version())
	m.SetStr("package_release", pkg.Release())
	m.SetStr("package_arch", pkg.Architecture())
	setIfNonEmpty(m, "package_os", pkg.OperatingSystem())
	setIfNonEmpty(m, "source_rpm", pkg.SourceRPM())
	setIfNonEmpty(m, "url", pkg.URL())
	setIfNonEmpty(m, "license", pkg.License())
	setIfNonEmpty(m, "vendor", pkg.Vendor())
	setIfNonEmpty(m, "packager", pkg.Packager())
	setIfNonEmpty(m, "build_host", pkg.BuildHost())
	if bt := pkg.BuildTime(); !bt.IsZero() {
		m.SetStr("build_time", bt.Format("2006-01-02 15:04:05"))
	}
	setIfNonEmpty(m, "summary", pkg.Summary())
	return m, nil
}

// extractDEB locates control.tar inside the ar archive and parses the control
// paragraph.
func extractDEB(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	arReader := ar.NewReader(f)
	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read DEB archive: %w", err)
		}

		name := path.Clean(header.Name)
		if !strings.HasPrefix(name, "control.tar") {
			continue
		}
		ext := filepath.Ext(name)
		if ext == ".tar" {
			ext = ""
		}
		return parseDebControl(arReader, ext)
	}
	return nil, errors.New("no control.tar file found in DEB package")
}

// parseDebControl decompresses control.tar and reads the control file's
// key/value fields. Continuation lines (long descriptions) are skipped.
func parseDebControl(r io.Reader, compressionExt string) (*metadata.Mapping, error) {
	var controlReader io.Reader = r

	switch compressionExt {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		controlReader = gz
	case ".bz2":
		controlReader = bzip2.NewReader(r)
	case ".xz":
		xzReader, err := xz.NewReader(r, 0)
		if err != nil {
			return nil, err
		}
		controlReader = xzReader
	case ".zst":
		zstdReader, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zstdReader.Close()
		controlReader = zstdReader
	case "":
		// Uncompressed.
	default:
		return nil, errors.New("unsupported compression format in control.tar: " + compressionExt)
	}

	tarReader := tar.NewReader(controlReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if path.Clean(header.Name) != "control" {
			continue
		}
		content, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, err
		}
		return parseControlFields(content), nil
	}
	return nil, errors.New("control file not found in control.tar")
}

// Control fields worth surfacing, in output order. "Maintainer" is the
// authorship signal.
var debFields = map[string]string{
	"Package":        "package_name",
	"Version":        "package_version",
	"Architecture":   "package_arch",
	"Maintainer":     "maintainer",
	"Installed-Size": "installed_size",
	"Section":        "section",
	"Homepage":       "url",
	"Description":    "description",
}

func parseControlFields(content []byte) *metadata.Mapping {
	m := metadata.NewMapping()
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if key, wanted := debFields[field]; wanted {
			m.SetStr(key, strings.TrimSpace(value))
		}
	}
	return m
}
