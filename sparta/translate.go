package sparta

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/stix"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

// Translator converts selected records into ontology triples. One
// translator serves a whole run, so every URI it mints shares the run's
// scheme.
type Translator struct {
	store    *stix.MemoryStore
	uris     *URIMapper
	resolver OntologyResolver
	logger   *slog.Logger
	metrics  *Metrics
	strict   bool
}

// TranslatorOptions carries the optional collaborators of a Translator.
type TranslatorOptions struct {
	StrictIDs bool
	Logger    *slog.Logger
	Metrics   *Metrics
}

// NewTranslator builds a translator over the given store, URI mapper,
// and ontology resolver.
func NewTranslator(store *stix.MemoryStore, uris *URIMapper, resolver OntologyResolver, opts TranslatorOptions) *Translator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		store:    store,
		uris:     uris,
		resolver: resolver,
		logger:   logger,
		metrics:  opts.Metrics,
		strict:   opts.StrictIDs,
	}
}

// TranslateTechnique emits the triples for one technique record. Errors
// wrapping ErrNoIdentifier mark the record as skippable; any other error
// is fatal to the run.
func (t *Translator) TranslateTechnique(g *rdf.Graph, tech *stix.Object) error {
	ref, err := ResolveReference(tech, t.strict)
	if err != nil {
		return err
	}
	id := ID(ref.ExternalID)
	uri := t.uris.URIFor(KindTechnique, id)

	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.ClassTechnique))
	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.OWLClass))
	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.OWLNamedIndividual))
	g.AddTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal(strings.TrimSpace(tech.Name)+TechniqueLabelSuffix))
	if ref.URL != "" {
		g.AddTriple(uri, rdf.IRI(d3f.RDFSSeeAlso), rdf.IRI(ref.URL))
	}
	g.AddTriple(uri, rdf.IRI(d3f.PropDefinition), rdf.Literal(tech.Description))
	g.AddTriple(uri, rdf.IRI(d3f.PropSpartaID), rdf.Literal(id.String()))

	parents, err := InferParents(id, tech.KillChainPhases, t.uris)
	if err != nil {
		return err
	}
	for _, parent := range parents {
		g.AddTriple(uri, rdf.IRI(d3f.RDFSSubClassOf), parent)
	}

	t.metrics.RecordTranslated(KindTechnique)
	return nil
}

// TranslateThreat emits the triples for one threat record. A
// defense-in-depth layer missing from the lookup table is fatal; a
// relationship whose target URI cannot be derived drops that edge only.
func (t *Translator) TranslateThreat(g *rdf.Graph, threat *stix.Object) error {
	ref, err := ResolveReference(threat, t.strict)
	if err != nil {
		return err
	}
	id := ID(ref.ExternalID)
	uri := t.uris.URIFor(KindThreat, id)

	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.ClassThreat))
	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.OWLClass))
	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.OWLNamedIndividual))
	g.AddTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal(threat.Name))
	if ref.URL != "" {
		g.AddTriple(uri, rdf.IRI(d3f.RDFSSeeAlso), rdf.IRI(ref.URL))
	}
	g.AddTriple(uri, rdf.IRI(d3f.PropDefinition), rdf.Literal(CleanDescription(threat.Description)))
	g.AddTriple(uri, rdf.IRI(d3f.PropSpartaID), rdf.Literal(id.String()))

	class, err := DefenseInDepthClass(threat.DefenseInDepth)
	if err != nil {
		return fmt.Errorf("threat %s: %w", id, err)
	}
	g.AddTriple(uri, rdf.IRI(d3f.RDFSSubClassOf), rdf.IRI(class))

	for _, rel := range t.store.Relationships(threat) {
		target, ok := t.store.Get(rel.TargetRef)
		if !ok {
			t.skipEdge(id, rel, "target not in store")
			continue
		}
		targetURI, ok := t.recordURI(target)
		if !ok {
			t.skipEdge(id, rel, "target has no reference identifier")
			continue
		}
		g.AddTriple(uri, rdf.IRI(d3f.PropRelated), targetURI)
	}

	t.metrics.RecordTranslated(KindThreat)
	return nil
}

// TranslateCountermeasure emits the triples for one countermeasure
// record. Countermeasures are individuals only, never classes. The
// sentinel countermeasure is translated as a node but contributes no
// relationship edges.
func (t *Translator) TranslateCountermeasure(g *rdf.Graph, cm *stix.Object) error {
	ref, err := ResolveReference(cm, t.strict)
	if err != nil {
		return err
	}
	id := ID(ref.ExternalID)
	uri := t.uris.URIFor(KindCountermeasure, id)

	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.ClassCountermeasure))
	g.AddTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.OWLNamedIndividual))
	g.AddTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal(cm.Name))
	if ref.URL != "" {
		g.AddTriple(uri, rdf.IRI(d3f.RDFSSeeAlso), rdf.IRI(ref.URL))
	}
	g.AddTriple(uri, rdf.IRI(d3f.PropDefinition), rdf.Literal(cm.Description))
	g.AddTriple(uri, rdf.IRI(d3f.PropSpartaID), rdf.Literal(id.String()))

	if id != SentinelCountermeasureID {
		t.translateCountermeasureEdges(g, cm, id, uri)
	}

	for _, extRef := range cm.ExternalReferences {
		if !strings.HasPrefix(extRef.URL, ControlReferenceURLPrefix) || extRef.ExternalID == "" {
			continue
		}
		g.AddTriple(uri, rdf.IRI(d3f.PropRelated), ControlURI(extRef.ExternalID))
	}

	t.metrics.RecordTranslated(KindCountermeasure)
	return nil
}

// translateCountermeasureEdges emits one edge per relationship: an
// enabled-by edge when the target references a D3FEND technique, a
// counters edge when the target is a SPARTA technique record, nothing
// otherwise.
func (t *Translator) translateCountermeasureEdges(g *rdf.Graph, cm *stix.Object, id ID, uri rdf.Term) {
	for _, rel := range t.store.Relationships(cm) {
		target, ok := t.store.Get(rel.TargetRef)
		if !ok {
			t.skipEdge(id, rel, "target not in store")
			continue
		}
		if extRef, found := t.ontologyReference(target); found {
			extURI, err := t.resolver.TechniqueURI(extRef)
			if err != nil {
				t.skipEdge(id, rel, err.Error())
				continue
			}
			g.AddTriple(uri, rdf.IRI(d3f.PropEnabledBy), extURI)
			continue
		}
		if target.Type != stix.TypeAttackPattern {
			continue
		}
		targetURI, ok := t.recordURI(target)
		if !ok {
			t.skipEdge(id, rel, "target has no reference identifier")
			continue
		}
		g.AddTriple(uri, rdf.IRI(d3f.PropCounters), targetURI)
	}
}

// ontologyReference finds a target's reference into the ontology
// namespace, if it carries one.
func (t *Translator) ontologyReference(target *stix.Object) (stix.ExternalReference, bool) {
	for _, ref := range target.ExternalReferences {
		if t.resolver.IsOntologyReference(ref) {
			return ref, true
		}
	}
	return stix.ExternalReference{}, false
}

// recordURI derives a relationship target's URI from its first external
// reference. Targets without references, or whose first reference has no
// identifier, yield no URI.
func (t *Translator) recordURI(target *stix.Object) (rdf.Term, bool) {
	if len(target.ExternalReferences) == 0 {
		return rdf.Term{}, false
	}
	extID := target.ExternalReferences[0].ExternalID
	if extID == "" {
		return rdf.Term{}, false
	}
	return t.uris.URIFor(kindOf(target), ID(extID)), true
}

func kindOf(obj *stix.Object) Kind {
	if obj.Type == stix.TypeCourseOfAction {
		return KindCountermeasure
	}
	return KindTechnique
}

func (t *Translator) skipEdge(id ID, rel *stix.Object, reason string) {
	t.logger.Warn("skipping relationship edge",
		slog.String("record", id.String()),
		slog.String("relationship", rel.ID),
		slog.String("target_ref", rel.TargetRef),
		slog.String("reason", reason))
	t.metrics.RecordEdgeSkipped()
}

// controlReplacer rewrites the parenthesized enhancement notation of
// NIST control ids into the ontology's underscore form.
var controlReplacer = strings.NewReplacer("(", "_", ")", "_")

// ControlURI returns the ontology node for a NIST SP 800-53 control
// reference. AC-4(1) maps to the node named NIST_SP_800-53_R5_AC-4_1_.
func ControlURI(controlID string) rdf.Term {
	return rdf.IRI(d3f.IRI(ControlURIPrefix + controlReplacer.Replace(controlID)))
}

// CleanDescription strips the list-serialization artifact wrapping threat
// descriptions in the source data, where a description arrives as
// ['text'] or ["text"].
func CleanDescription(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, pair := range [][2]string{{"['", "']"}, {`["`, `"]`}} {
		if strings.HasPrefix(trimmed, pair[0]) && strings.HasSuffix(trimmed, pair[1]) && len(trimmed) >= len(pair[0])+len(pair[1]) {
			return trimmed[len(pair[0]) : len(trimmed)-len(pair[1])]
		}
	}
	return trimmed
}
