package sparta

import (
	"fmt"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

// Scheme selects how record URIs are minted. Exactly one scheme applies
// per run; it is chosen once from configuration and threaded through every
// translator.
type Scheme string

const (
	// SchemePrefixed mints URIs as d3f:SPARTA-<id>, the v1.x convention.
	SchemePrefixed Scheme = "prefixed"

	// SchemeBare mints URIs as d3f:<id>, the v2.x convention.
	SchemeBare Scheme = "bare"
)

// schemePrefix is the namespace tag and separator of the prefixed scheme.
const schemePrefix = "SPARTA-"

// IsValid reports whether the scheme is a supported value.
func (s Scheme) IsValid() bool {
	return s == SchemePrefixed || s == SchemeBare
}

// URIMapper mints the ontology URI for a record. All record URIs flow
// through one mapper so a run can never mix schemes.
type URIMapper struct {
	scheme Scheme
}

// NewURIMapper returns a mapper for the given scheme.
func NewURIMapper(scheme Scheme) (*URIMapper, error) {
	if !scheme.IsValid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownScheme, scheme)
	}
	return &URIMapper{scheme: scheme}, nil
}

// Scheme returns the scheme the mapper was built with.
func (m *URIMapper) Scheme() Scheme {
	return m.scheme
}

// URIFor returns the node URI for a record of the given kind. Both
// schemes currently mint kind-independent URIs; kind stays in the
// signature because it is part of the mapping contract.
func (m *URIMapper) URIFor(kind Kind, id ID) rdf.Term {
	if m.scheme == SchemePrefixed {
		return rdf.IRI(d3f.IRI(schemePrefix + id.String()))
	}
	return rdf.IRI(d3f.IRI(id.String()))
}
