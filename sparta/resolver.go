package sparta

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/stix"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

// OntologyResolver is the capability the countermeasure translator uses
// to reach the merged ontology: classifying external references and
// deriving node URIs from reference URLs. Translators never touch the
// ontology graph directly.
type OntologyResolver interface {
	// IsOntologyReference reports whether the reference points into the
	// ontology namespace.
	IsOntologyReference(ref stix.ExternalReference) bool

	// TechniqueURI derives the ontology node URI from a technique
	// reference's url.
	TechniqueURI(ref stix.ExternalReference) (rdf.Term, error)
}

// GraphResolver resolves references against a loaded ontology graph. The
// graph may be nil when translating without a merge target; presence
// checks are then skipped.
type GraphResolver struct {
	graph  *rdf.Graph
	logger *slog.Logger
}

// NewGraphResolver returns a resolver over the given ontology graph.
func NewGraphResolver(graph *rdf.Graph, logger *slog.Logger) *GraphResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphResolver{graph: graph, logger: logger}
}

// IsOntologyReference reports whether the reference is a D3FEND one.
func (r *GraphResolver) IsOntologyReference(ref stix.ExternalReference) bool {
	return ref.SourceName == D3FENDSourceName
}

// TechniqueURI derives the D3FEND technique URI from the reference url by
// stripping the technique URL prefix and any trailing slash.
func (r *GraphResolver) TechniqueURI(ref stix.ExternalReference) (rdf.Term, error) {
	if !strings.HasPrefix(ref.URL, D3FENDTechniqueURLPrefix) {
		return rdf.Term{}, fmt.Errorf("reference url %q is not a d3fend technique url", ref.URL)
	}
	local := strings.TrimSuffix(strings.TrimPrefix(ref.URL, D3FENDTechniqueURLPrefix), "/")
	if local == "" {
		return rdf.Term{}, fmt.Errorf("reference url %q names no technique", ref.URL)
	}
	uri := rdf.IRI(d3f.IRI(local))
	if r.graph != nil && !r.graph.HasSubject(uri) {
		r.logger.Warn("d3fend technique not present in ontology",
			slog.String("technique", local),
			slog.String("url", ref.URL))
	}
	return uri, nil
}
