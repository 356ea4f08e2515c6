package extractor

import (
	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/metadata"
)

// Adapter translates one file domain's native metadata into the canonical
// value model. Adapters are free to use any underlying decoding library; the
// assembler is agnostic to whether an adapter parses in-process or shells out.
type Adapter interface {
	// Domain identifies which record section this adapter populates.
	Domain() metadata.Domain

	// CanHandle checks whether this adapter applies to the file, given its
	// path and detected MIME type. An empty MIME type must be tolerated.
	CanHandle(filePath string, mimeType string) bool

	// Extract parses the file's metadata into a nested mapping.
	Extract(filePath string) (*metadata.Mapping, error)
}

// Registry holds the available adapters in dispatch order.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with all domain adapters. Exact-MIME
// adapters are registered before the major-type ones so dispatch resolves
// the most specific domain first.
func NewRegistry(cfg config.Config) *Registry {
	r := &Registry{}

	r.Register(&PDFAdapter{ExtractText: cfg.ExtractText})
	r.Register(&DocumentAdapter{})
	r.Register(&PackageAdapter{})
	r.Register(&PlistAdapter{})

	r.Register(&ImageAdapter{})
	r.Register(&AudioAdapter{})

	return r
}

// Register appends an adapter to the dispatch order.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// Resolve returns the first adapter that can handle the file, or nil when no
// dedicated adapter applies.
func (r *Registry) Resolve(filePath, mimeType string) Adapter {
	for _, a := range r.adapters {
		if a.CanHandle(filePath, mimeType) {
			return a
		}
	}
	return nil
}
