package metadata

// Domain identifies which extractor produced a record's domain metadata.
type Domain int

const (
	DomainNone Domain = iota
	DomainImage
	DomainPDF
	DomainAudio
	DomainDocument
	DomainPackage
	DomainPlist
	DomainExternal
)

// Section returns the top-level key the domain payload is stored under in a
// flat-schema record.
func (d Domain) Section() string {
	switch d {
	case DomainImage:
		return "image_metadata"
	case DomainPDF:
		return "pdf_metadata"
	case DomainAudio:
		return "audio_metadata"
	case DomainDocument:
		return "document_metadata"
	case DomainPackage:
		return "package_metadata"
	case DomainPlist:
		return "plist_metadata"
	case DomainExternal:
		return "exiftool_metadata"
	}
	return ""
}

// String returns a short human label for logging.
func (d Domain) String() string {
	switch d {
	case DomainImage:
		return "image"
	case DomainPDF:
		return "pdf"
	case DomainAudio:
		return "audio"
	case DomainDocument:
		return "document"
	case DomainPackage:
		return "package"
	case DomainPlist:
		return "plist"
	case DomainExternal:
		return "exiftool"
	}
	return "none"
}

// Sections lists every flat-schema domain section key.
func Sections() []string {
	return []string{
		DomainImage.Section(),
		DomainPDF.Section(),
		DomainAudio.Section(),
		DomainDocument.Section(),
		DomainPackage.Section(),
		DomainPlist.Section(),
		DomainExternal.Section(),
	}
}

// SectionDomain maps a flat-schema section key back to its domain tag.
func SectionDomain(section string) (Domain, bool) {
	for _, d := range []Domain{
		DomainImage, DomainPDF, DomainAudio, DomainDocument,
		DomainPackage, DomainPlist, DomainExternal,
	} {
		if d.Section() == section {
			return d, true
		}
	}
	return DomainNone, false
}

// Record is the canonical result of inspecting one file. Base holds the
// fixed file attributes and is never mutated after assembly. Meta holds the
// domain payload, absent when extraction failed or no extractor applied.
// Err is set only when filesystem access itself failed; Err and Meta are
// never both populated. Grouped marks a forced external-tool record whose
// Meta is the whole grouped-schema map (base attributes merged under the
// synthetic "General" group).
type Record struct {
	Base      *Mapping
	Domain    Domain
	Meta      *Mapping
	DomainErr string
	Err       string
	Grouped   bool
}

// Canonical assembles the single canonical nested map the highlighter,
// presenter and exporters consume.
func (r *Record) Canonical() *Mapping {
	if r == nil {
		return NewMapping()
	}
	if r.Grouped && r.Meta != nil {
		return r.Meta
	}
	m := NewMapping()
	if r.Base != nil {
		for _, k := range r.Base.Keys() {
			v, _ := r.Base.Get(k)
			m.Set(k, v)
		}
	}
	if r.Err != "" {
		m.SetStr("error", r.Err)
		return m
	}
	if r.Meta != nil {
		if section := r.Domain.Section(); section != "" {
			m.Set(section, Map(r.Meta))
		}
	}
	return m
}

// Equal compares two records by their canonical maps.
func (r *Record) Equal(o *Record) bool {
	return r.Canonical().Equal(o.Canonical())
}

// IsGrouped reports whether a canonical map uses the grouped (external-tool)
// schema: at least one top-level value is itself a mapping and a "General"
// group key exists. This heuristic is the single place schema ambiguity is
// resolved; a flat record misclassifies only if it carries a top-level
// "General" key, which no adapter in this repository emits.
func IsGrouped(m *Mapping) bool {
	if m == nil || !m.Has("General") {
		return false
	}
	for _, k := range m.Keys() {
		if v, _ := m.Get(k); v.Kind == KindMapping {
			return true
		}
	}
	return false
}

// FromCanonical rebuilds a Record from a canonical map, classifying the
// schema structurally. It is the inverse of Canonical for the lossless JSON
// export.
func FromCanonical(m *Mapping) *Record {
	rec := &Record{}
	if IsGrouped(m) {
		rec.Grouped = true
		rec.Domain = DomainExternal
		rec.Meta = m
		return rec
	}
	rec.Base = NewMapping()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if k == "error" && v.Kind == KindScalar {
			rec.Err = v.String()
			continue
		}
		if d, ok := SectionDomain(k); ok && v.Kind == KindMapping {
			rec.Domain = d
			rec.Meta = v.Map
			continue
		}
		rec.Base.Set(k, v)
	}
	return rec
}
