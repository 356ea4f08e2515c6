package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sassoftware/relic/v8/lib/comdoc"

	"github.com/hansbricks/metascope/internal/metadata"
)

const (
	mimeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeLegacyDoc = "application/msword"
)

// DocumentAdapter extracts authorship and revision metadata from office
// documents: OOXML core/app properties for .docx, and the compound-file
// directory for legacy .doc containers.
type DocumentAdapter struct{}

func (a *DocumentAdapter) Domain() metadata.Domain {
	return metadata.DomainDocument
}

func (a *DocumentAdapter) CanHandle(filePath string, mimeType string) bool {
	if mimeType == mimeDOCX || mimeType == mimeLegacyDoc {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".docx" || ext == ".doc"
}

func (a *DocumentAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	if m, err := extractOOXML(filePath); err == nil {
		return m, nil
	}
	return extractCompoundDoc(filePath)
}

// coreProperties mirrors docProps/core.xml of an OOXML package.
type coreProperties struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	Keywords       string `xml:"keywords"`
	Description    string `xml:"description"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Revision       string `xml:"revision"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
	Category       string `xml:"category"`
}

// appProperties mirrors docProps/app.xml.
type appProperties struct {
	Application string `xml:"Application"`
	AppVersion  string `xml:"AppVersion"`
	Company     string `xml:"Company"`
	Pages       int    `xml:"Pages"`
	Words       int    `xml:"Words"`
	Paragraphs  int    `xml:"Paragraphs"`
}

// extractOOXML reads document properties out of the zip container.
func extractOOXML(filePath string) (*metadata.Mapping, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("not an OOXML package: %w", err)
	}
	defer zr.Close()

	m := metadata.NewMapping()

	var core coreProperties
	if err := decodeZipXML(&zr.Reader, "docProps/core.xml", &core); err != nil {
		return nil, err
	}
	setIfNonEmpty(m, "author", core.Creator)
	setIfNonEmpty(m, "created", core.Created)
	setIfNonEmpty(m, "modified", core.Modified)
	setIfNonEmpty(m, "last_modified_by", core.LastModifiedBy)
	setIfNonEmpty(m, "title", core.Title)
	setIfNonEmpty(m, "subject", core.Subject)
	setIfNonEmpty(m, "keywords", core.Keywords)
	setIfNonEmpty(m, "comments", core.Description)
	setIfNonEmpty(m, "category", core.Category)
	setIfNonEmpty(m, "revision", core.Revision)

	var app appProperties
	if err := decodeZipXML(&zr.Reader, "docProps/app.xml", &app); err == nil {
		setIfNonEmpty(m, "application", app.Application)
		setIfNonEmpty(m, "app_version", app.AppVersion)
		setIfNonEmpty(m, "company", app.Company)
		if app.Pages > 0 {
			m.SetStr("pages", strconv.Itoa(app.Pages))
		}
		if app.Words > 0 {
			m.SetStr("words", strconv.Itoa(app.Words))
		}
		if app.Paragraphs > 0 {
			m.SetStr("paragraphs", strconv.Itoa(app.Paragraphs))
		}
	}

	return m, nil
}

func decodeZipXML(zr *zip.Reader, name string, out any) error {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		return xml.Unmarshal(data, out)
	}
	return fmt.Errorf("%s not found in package", name)
}

// extractCompoundDoc lists the streams of a legacy CFB .doc container. The
// binary Word format is not decoded; the stream inventory still tells a
// reviewer what the container carries.
func extractCompoundDoc(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := comdoc.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document metadata: %w", err)
	}
	defer c.Close()

	entries, err := c.ListDir(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list compound document: %w", err)
	}

	m := metadata.NewMapping()
	m.SetStr("format", "Compound File Binary")

	var streams []string
	hasWordStream := false
	hasSummary := false
	for _, e := range entries {
		if e.Type != comdoc.DirStream {
			continue
		}
		name := e.Name()
		streams = append(streams, name)
		if name == "WordDocument" {
			hasWordStream = true
		}
		if strings.Contains(name, "SummaryInformation") {
			hasSummary = true
		}
	}
	m.Set("streams", metadata.Strings(streams))
	m.Set("word_document", metadata.Bool(hasWordStream))
	m.Set("summary_information", metadata.Bool(hasSummary))
	return m, nil
}
