package rdf

import (
	"sort"
	"strings"
	"unicode"
)

// Turtle renders the graph as Turtle: a sorted prefix block, then triples
// grouped by subject, with rdf:type written first as "a". Output ordering
// is deterministic so repeated runs over the same graph produce identical
// files.
func (g *Graph) Turtle() string {
	var sb strings.Builder

	prefixes := make([]string, 0, len(g.prefixes))
	for p := range g.prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		sb.WriteString("@prefix ")
		sb.WriteString(p)
		sb.WriteString(": <")
		sb.WriteString(g.prefixes[p])
		sb.WriteString("> .\n")
	}

	for _, group := range g.subjectGroups() {
		sb.WriteString("\n")
		g.writeSubjectTurtle(&sb, group)
	}
	return sb.String()
}

// subjectGroup holds one subject's triples in write order.
type subjectGroup struct {
	subject Term
	types   []Term
	other   []Triple
}

func (g *Graph) subjectGroups() []subjectGroup {
	bySubject := make(map[Term]*subjectGroup)
	order := make([]Term, 0)
	for _, t := range g.Triples() {
		group, ok := bySubject[t.Subject]
		if !ok {
			group = &subjectGroup{subject: t.Subject}
			bySubject[t.Subject] = group
			order = append(order, t.Subject)
		}
		if t.Predicate.Value == rdfType {
			group.types = append(group.types, t.Object)
		} else {
			group.other = append(group.other, t)
		}
	}
	out := make([]subjectGroup, 0, len(order))
	for _, s := range order {
		out = append(out, *bySubject[s])
	}
	return out
}

func (g *Graph) writeSubjectTurtle(sb *strings.Builder, group subjectGroup) {
	sb.WriteString(g.turtleTerm(group.subject))
	sb.WriteString("\n")

	statements := make([]string, 0, len(group.types)+len(group.other))
	if len(group.types) > 0 {
		rendered := make([]string, len(group.types))
		for i, obj := range group.types {
			rendered[i] = g.turtleTerm(obj)
		}
		statements = append(statements, "a "+strings.Join(rendered, ", "))
	}

	// Triples() already sorted by predicate then object, so objects of a
	// shared predicate are adjacent.
	for i := 0; i < len(group.other); {
		predicate := group.other[i].Predicate
		objects := []string{g.turtleTerm(group.other[i].Object)}
		j := i + 1
		for j < len(group.other) && group.other[j].Predicate == predicate {
			objects = append(objects, g.turtleTerm(group.other[j].Object))
			j++
		}
		statements = append(statements, g.turtleTerm(predicate)+" "+strings.Join(objects, ", "))
		i = j
	}

	for i, stmt := range statements {
		sb.WriteString("    ")
		sb.WriteString(stmt)
		if i < len(statements)-1 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}
}

// turtleTerm renders a term for Turtle output, compressing IRIs to
// prefixed names when a bound prefix matches.
func (g *Graph) turtleTerm(t Term) string {
	switch t.Kind {
	case KindIRI:
		if t.Value == rdfType {
			return "a"
		}
		if qname, ok := g.qname(t.Value); ok {
			return qname
		}
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		s := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" && t.Datatype != XSDString {
			if qname, ok := g.qname(t.Datatype); ok {
				return s + "^^" + qname
			}
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	}
}

// qname compresses an IRI against the bound prefixes, preferring the
// longest matching namespace.
func (g *Graph) qname(iri string) (string, bool) {
	bestPrefix := ""
	bestLen := -1
	for prefix, ns := range g.prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if len(ns) > bestLen || (len(ns) == bestLen && prefix < bestPrefix) {
			bestPrefix = prefix
			bestLen = len(ns)
		}
	}
	if bestLen < 0 {
		return "", false
	}
	local := iri[bestLen:]
	if !safeLocalName(local) {
		return "", false
	}
	return bestPrefix + ":" + local, true
}

// safeLocalName reports whether local can appear in a prefixed name
// without escaping.
func safeLocalName(local string) bool {
	if local == "" {
		return false
	}
	runes := []rune(local)
	for i, c := range runes {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_':
		case c == '-' && i > 0:
		case c == '.' && i > 0 && i < len(runes)-1:
		default:
			return false
		}
	}
	return true
}

// NTriples renders the graph as sorted N-Triples lines.
func (g *Graph) NTriples() string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
