package metadata

import "strings"

// Category term lists for grouped-schema scanning. Matching is substring
// based on the lowercased key, not whole-word.
var (
	gpsTerms    = []string{"latitude", "longitude", "altitude", "position"}
	timeTerms   = []string{"date", "time", "created", "modified"}
	deviceTerms = []string{"make", "model", "software", "device", "camera", "phone"}
	authorTerms = []string{"author", "creator", "producer", "owner", "artist"}

	timeGroups   = []string{"EXIF", "File", "XMP", "ICC_Profile"}
	deviceGroups = []string{"EXIF", "MakerNotes", "QuickTime"}
	authorGroups = []string{"XMP", "PDF", "File"}
)

// Highlight derives the forensic points-of-interest view from a record. It
// is a pure function over the canonical map: keys in the result always exist
// verbatim in the source record, and a record carrying only an error yields
// an empty map. Output keys appear in rule order.
func Highlight(rec *Record) *Mapping {
	poi := NewMapping()
	if rec == nil {
		return poi
	}
	m := rec.Canonical()
	if IsGrouped(m) {
		highlightGrouped(m, poi)
	} else {
		highlightFlat(m, poi)
	}
	return poi
}

func highlightGrouped(m *Mapping, poi *Mapping) {
	if gps, ok := m.Child("GPS"); ok {
		loc := NewMapping()
		for _, key := range gps.Keys() {
			if matchesAny(key, gpsTerms) {
				v, _ := gps.Get(key)
				loc.Set(key, v)
			}
		}
		if loc.Len() > 0 {
			poi.Set("GPS_LOCATION", Map(loc))
		}
	}
	copyMatching(m, poi, timeGroups, timeTerms)
	copyMatching(m, poi, deviceGroups, deviceTerms)
	copyMatching(m, poi, authorGroups, authorTerms)
}

// copyMatching copies every key in the named groups whose lowercase form
// contains one of the terms, under a "group:key" output key. A key scanned by
// several rules is copied by each; identical output keys keep the last write.
func copyMatching(m *Mapping, poi *Mapping, groups, terms []string) {
	for _, group := range groups {
		g, ok := m.Child(group)
		if !ok {
			continue
		}
		for _, key := range g.Keys() {
			if matchesAny(key, terms) {
				v, _ := g.Get(key)
				poi.Set(group+":"+key, v)
			}
		}
	}
}

func highlightFlat(m *Mapping, poi *Mapping) {
	if img, ok := m.Child(DomainImage.Section()); ok {
		if exif, ok := img.Child("EXIF"); ok {
			if gps, ok := exif.Get("GPSInfo"); ok {
				poi.Set("GPS_LOCATION", gps)
			}
			for _, key := range []string{"DateTimeOriginal", "DateTime", "Make", "Model", "Software"} {
				if v, ok := exif.Get(key); ok {
					poi.Set(key, v)
				}
			}
		}
	}
	if pdf, ok := m.Child(DomainPDF.Section()); ok {
		for _, key := range []string{"Author", "Creator", "Producer", "CreationDate", "ModDate"} {
			if v, ok := pdf.Get(key); ok {
				poi.Set(key, v)
			}
		}
	}
	if audio, ok := m.Child(DomainAudio.Section()); ok {
		if v, ok := audio.Get("smartphone_indicators"); ok {
			poi.Set("SMARTPHONE_DATA", v)
		}
	}
	if doc, ok := m.Child(DomainDocument.Section()); ok {
		for _, key := range []string{"author", "created", "modified", "last_modified_by"} {
			if v, ok := doc.Get(key); ok && v.String() != "" {
				poi.Set(key, v)
			}
		}
	}
}

func matchesAny(key string, terms []string) bool {
	lower := strings.ToLower(key)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
