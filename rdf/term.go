// Package rdf provides the triple model, Turtle parsing, and serialization
// used to read and rewrite ontology files on disk.
package rdf

import (
	"fmt"
	"strings"
)

// Common datatype IRIs used when typing literals.
const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// RDF collection terms emitted when parsing Turtle collections.
const (
	RDFFirst = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
)

// TermKind discriminates the three node kinds a term can hold.
type TermKind int

const (
	// KindIRI is a full IRI reference.
	KindIRI TermKind = iota

	// KindLiteral is a literal with optional datatype or language tag.
	KindLiteral

	// KindBlank is a labeled blank node.
	KindBlank
)

// Term is one node of a triple. Terms are plain comparable values so
// triples can key a map directly.
type Term struct {
	Kind     TermKind
	Value    string // IRI, lexical form, or blank node label
	Datatype string // literal datatype IRI, empty for plain literals
	Lang     string // literal language tag, empty when absent
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Literal returns a plain string literal term.
func Literal(lexical string) Term {
	return Term{Kind: KindLiteral, Value: lexical}
}

// TypedLiteral returns a literal term with a datatype IRI. An xsd:string
// datatype is dropped so explicitly typed strings and plain literals
// compare equal.
func TypedLiteral(lexical, datatype string) Term {
	if datatype == XSDString {
		return Term{Kind: KindLiteral, Value: lexical}
	}
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// LangLiteral returns a literal term with a language tag.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Lang: lang}
}

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// String renders the term in N-Triples form.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		s := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" && t.Datatype != XSDString {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	}
}

// sortKey orders terms deterministically: IRIs, then blanks, then literals.
func (t Term) sortKey() string {
	switch t.Kind {
	case KindIRI:
		return "0\x00" + t.Value
	case KindBlank:
		return "1\x00" + t.Value
	default:
		return "2\x00" + t.Value + "\x00" + t.Datatype + "\x00" + t.Lang
	}
}

// Triple is a single subject/predicate/object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple builds a triple from its three terms.
func NewTriple(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// String renders the triple as an N-Triples statement without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

func (t Triple) sortKey() string {
	var sb strings.Builder
	sb.WriteString(t.Subject.sortKey())
	sb.WriteByte('\x01')
	sb.WriteString(t.Predicate.sortKey())
	sb.WriteByte('\x01')
	sb.WriteString(t.Object.sortKey())
	return sb.String()
}

// escapeString escapes special characters for Turtle and N-Triples output.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
