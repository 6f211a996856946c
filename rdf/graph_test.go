package rdf_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/ontomerge/rdf"
)

func TestGraphSetSemantics(t *testing.T) {
	g := rdf.NewGraph()
	triple := rdf.NewTriple(
		rdf.IRI("http://example.org/s"),
		rdf.IRI("http://example.org/p"),
		rdf.Literal("o"),
	)

	g.Add(triple)
	g.Add(triple)

	if g.Len() != 1 {
		t.Errorf("expected 1 triple after duplicate add, got %d", g.Len())
	}
	if !g.Has(triple) {
		t.Error("expected graph to contain the triple")
	}
}

func TestGraphUnionIdempotent(t *testing.T) {
	a := rdf.NewGraph()
	a.AddTriple(rdf.IRI("http://example.org/a"), rdf.IRI("http://example.org/p"), rdf.Literal("1"))
	a.AddTriple(rdf.IRI("http://example.org/b"), rdf.IRI("http://example.org/p"), rdf.Literal("2"))

	b := rdf.NewGraph()
	b.AddTriple(rdf.IRI("http://example.org/b"), rdf.IRI("http://example.org/p"), rdf.Literal("2"))
	b.AddTriple(rdf.IRI("http://example.org/c"), rdf.IRI("http://example.org/p"), rdf.Literal("3"))

	a.Union(b)
	if a.Len() != 3 {
		t.Fatalf("expected 3 triples after union, got %d", a.Len())
	}

	a.Union(b)
	if a.Len() != 3 {
		t.Errorf("expected union to be idempotent, got %d triples", a.Len())
	}
}

func TestGraphEqual(t *testing.T) {
	a := rdf.NewGraph()
	b := rdf.NewGraph()
	triple := rdf.NewTriple(rdf.IRI("http://example.org/s"), rdf.IRI("http://example.org/p"), rdf.Literal("o"))

	if !a.Equal(b) {
		t.Error("expected two empty graphs to be equal")
	}

	a.Add(triple)
	if a.Equal(b) {
		t.Error("expected graphs with different triples to differ")
	}

	b.Add(triple)
	if !a.Equal(b) {
		t.Error("expected graphs with the same triples to be equal")
	}
}

func TestObjectsFor(t *testing.T) {
	g := rdf.NewGraph()
	s := rdf.IRI("http://example.org/s")
	p := rdf.IRI("http://example.org/p")
	g.AddTriple(s, p, rdf.Literal("b"))
	g.AddTriple(s, p, rdf.Literal("a"))
	g.AddTriple(s, rdf.IRI("http://example.org/q"), rdf.Literal("c"))

	objects := g.ObjectsFor(s, p)
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if objects[0].Value != "a" || objects[1].Value != "b" {
		t.Errorf("expected deterministic object order, got %v", objects)
	}
}

func TestHasSubject(t *testing.T) {
	g := rdf.NewGraph()
	s := rdf.IRI("http://example.org/s")
	g.AddTriple(s, rdf.IRI("http://example.org/p"), rdf.Literal("o"))

	if !g.HasSubject(s) {
		t.Error("expected subject to be present")
	}
	if g.HasSubject(rdf.IRI("http://example.org/other")) {
		t.Error("expected absent subject to be reported missing")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	g := rdf.NewGraph()
	g.Bind("ex", "http://example.org/")
	g.AddTriple(rdf.IRI("http://example.org/s"), rdf.IRI("http://example.org/p"), rdf.Literal("hello\nworld"))
	g.AddTriple(rdf.IRI("http://example.org/s"), rdf.IRI("http://example.org/q"), rdf.IRI("http://example.org/o"))

	path := filepath.Join(t.TempDir(), "out.ttl")
	if err := g.WriteFile(path, rdf.FormatTurtle); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	parsed, err := rdf.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if !parsed.Equal(g) {
		t.Errorf("round-tripped graph differs: wrote %d triples, read %d", g.Len(), parsed.Len())
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := rdf.ParseFile(filepath.Join(t.TempDir(), "absent.ttl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "absent.ttl") {
		t.Errorf("expected error to name the file, got %q", err)
	}
}

func TestSerializeUnsupportedFormat(t *testing.T) {
	g := rdf.NewGraph()
	if _, err := g.Serialize(rdf.Format("jsonld")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
