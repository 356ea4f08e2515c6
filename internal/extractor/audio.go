package extractor

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"github.com/hansbricks/metascope/internal/metadata"
)

// Terms whose presence in a tag name suggests the file was recorded on a
// smartphone or carries device/location info.
var smartphoneTerms = []string{"device", "model", "make", "recorder", "location", "gps", "geolocation"}

// AudioAdapter extracts tag metadata (ID3, MP4 atoms, Vorbis comments) from
// audio files and derives the smartphone-indicator list consumed by the
// highlighter.
type AudioAdapter struct{}

func (a *AudioAdapter) Domain() metadata.Domain {
	return metadata.DomainAudio
}

func (a *AudioAdapter) CanHandle(filePath string, mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/")
}

func (a *AudioAdapter) Extract(filePath string) (*metadata.Mapping, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("unsupported audio format or corrupted file: %w", err)
	}

	m := metadata.NewMapping()
	m.SetStr("format", string(t.Format()))
	m.SetStr("file_type", string(t.FileType()))
	setIfNonEmpty(m, "title", t.Title())
	setIfNonEmpty(m, "artist", t.Artist())
	setIfNonEmpty(m, "album", t.Album())
	setIfNonEmpty(m, "album_artist", t.AlbumArtist())
	setIfNonEmpty(m, "composer", t.Composer())
	setIfNonEmpty(m, "genre", t.Genre())
	if t.Year() != 0 {
		m.SetStr("year", strconv.Itoa(t.Year()))
	}

	// Raw frames, sorted for deterministic output. Binary frames (artwork)
	// are summarized rather than dumped.
	raw := t.Raw()
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)
	for _, k := range rawKeys {
		if m.Has(k) {
			continue
		}
		switch v := raw[k].(type) {
		case *tag.Picture:
			m.SetStr(k, fmt.Sprintf("<%s image: %d bytes>", v.MIMEType, len(v.Data)))
		case []byte:
			m.SetStr(k, fmt.Sprintf("<binary data: %d bytes>", len(v)))
		default:
			m.SetStr(k, fmt.Sprint(v))
		}
	}

	if indicators := smartphoneIndicators(m); len(indicators) > 0 {
		m.Set("smartphone_indicators", metadata.Strings(indicators))
	}
	return m, nil
}

// smartphoneIndicators collects "key: value" entries for every tag whose
// name matches a device or location term.
func smartphoneIndicators(m *metadata.Mapping) []string {
	var out []string
	for _, key := range m.Keys() {
		if matchesTerm(key, smartphoneTerms) {
			v, _ := m.Get(key)
			out = append(out, key+": "+v.String())
		}
	}
	return out
}

func matchesTerm(key string, terms []string) bool {
	lower := strings.ToLower(key)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func setIfNonEmpty(m *metadata.Mapping, key, value string) {
	if value != "" {
		m.SetStr(key, value)
	}
}
