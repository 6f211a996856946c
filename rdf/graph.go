package rdf

import (
	"fmt"
	"os"
	"sort"
)

// Format specifies a serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// Graph is a set of triples with a prefix table for serialization.
// Adding a triple twice is a no-op, so unions are idempotent.
type Graph struct {
	triples  map[Triple]struct{}
	prefixes map[string]string
}

// NewGraph returns an empty graph with the standard prefixes bound.
func NewGraph() *Graph {
	return &Graph{
		triples:  make(map[Triple]struct{}),
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the namespace prefixes every graph starts with.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
		"owl":  "http://www.w3.org/2002/07/owl#",
		"xsd":  "http://www.w3.org/2001/XMLSchema#",
	}
}

// Bind associates a prefix with a namespace for Turtle output. Binding a
// prefix already in use replaces it.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Prefixes returns a copy of the bound prefix table.
func (g *Graph) Prefixes() map[string]string {
	out := make(map[string]string, len(g.prefixes))
	for p, ns := range g.prefixes {
		out[p] = ns
	}
	return out
}

// Add inserts a triple. Duplicate inserts leave the graph unchanged.
func (g *Graph) Add(t Triple) {
	g.triples[t] = struct{}{}
}

// AddTriple inserts a triple built from its three terms.
func (g *Graph) AddTriple(s, p, o Term) {
	g.Add(NewTriple(s, p, o))
}

// Has reports whether the graph contains the triple.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// HasSubject reports whether any triple has the given subject.
func (g *Graph) HasSubject(s Term) bool {
	for t := range g.triples {
		if t.Subject == s {
			return true
		}
	}
	return false
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Union adds every triple of other into g and merges other's prefix
// bindings for prefixes g has not bound itself.
func (g *Graph) Union(other *Graph) {
	for t := range other.triples {
		g.triples[t] = struct{}{}
	}
	for p, ns := range other.prefixes {
		if _, bound := g.prefixes[p]; !bound {
			g.prefixes[p] = ns
		}
	}
}

// Equal reports whether both graphs hold the same triple set. Prefix
// bindings do not participate in equality.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.triples) != len(other.triples) {
		return false
	}
	for t := range g.triples {
		if _, ok := other.triples[t]; !ok {
			return false
		}
	}
	return true
}

// Triples returns all triples in deterministic order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].sortKey() < out[j].sortKey()
	})
	return out
}

// ObjectsFor returns the objects of all triples with the given subject and
// predicate, in deterministic order.
func (g *Graph) ObjectsFor(s, p Term) []Term {
	var out []Term
	for t := range g.triples {
		if t.Subject == s && t.Predicate == p {
			out = append(out, t.Object)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].sortKey() < out[j].sortKey()
	})
	return out
}

// ParseFile reads and parses a Turtle file into a new graph.
func ParseFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ontology file %s: %w", path, err)
	}
	g, err := ParseTurtle(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing ontology file %s: %w", path, err)
	}
	return g, nil
}

// WriteFile serializes the graph to path in the given format, writing to a
// temporary file first and renaming into place so a failed run never
// leaves a truncated ontology behind.
func (g *Graph) WriteFile(path string, format Format) error {
	data, err := g.Serialize(format)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Serialize renders the graph in the given format.
func (g *Graph) Serialize(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return g.Turtle(), nil
	case FormatNTriples:
		return g.NTriples(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
