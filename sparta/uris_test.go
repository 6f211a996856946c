package sparta_test

import (
	"errors"
	"testing"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/sparta"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

func TestURIMapperSchemes(t *testing.T) {
	tests := []struct {
		name   string
		scheme sparta.Scheme
		kind   sparta.Kind
		id     sparta.ID
		want   string
	}{
		{"prefixed technique", sparta.SchemePrefixed, sparta.KindTechnique, "TEC-0001", d3f.Namespace + "SPARTA-TEC-0001"},
		{"prefixed sub-technique", sparta.SchemePrefixed, sparta.KindTechnique, "TEC-0001.01", d3f.Namespace + "SPARTA-TEC-0001.01"},
		{"prefixed countermeasure", sparta.SchemePrefixed, sparta.KindCountermeasure, "CM0012", d3f.Namespace + "SPARTA-CM0012"},
		{"bare technique", sparta.SchemeBare, sparta.KindTechnique, "TEC-0001", d3f.Namespace + "TEC-0001"},
		{"bare threat", sparta.SchemeBare, sparta.KindThreat, "THR-0042", d3f.Namespace + "THR-0042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapper, err := sparta.NewURIMapper(tt.scheme)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := mapper.URIFor(tt.kind, tt.id)
			if got != rdf.IRI(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got.Value)
			}
		})
	}
}

func TestURIMapperKindIndependent(t *testing.T) {
	mapper, err := sparta.NewURIMapper(sparta.SchemePrefixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := mapper.URIFor(sparta.KindTechnique, "X-1")
	b := mapper.URIFor(sparta.KindThreat, "X-1")
	c := mapper.URIFor(sparta.KindCountermeasure, "X-1")
	if a != b || b != c {
		t.Errorf("expected one uri per identifier regardless of kind, got %s / %s / %s", a.Value, b.Value, c.Value)
	}
}

func TestNewURIMapperUnknownScheme(t *testing.T) {
	_, err := sparta.NewURIMapper(sparta.Scheme("fancy"))
	if !errors.Is(err, sparta.ErrUnknownScheme) {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestSchemeIsValid(t *testing.T) {
	if !sparta.SchemePrefixed.IsValid() || !sparta.SchemeBare.IsValid() {
		t.Error("expected both known schemes to be valid")
	}
	if sparta.Scheme("").IsValid() {
		t.Error("expected the empty scheme to be invalid")
	}
}
