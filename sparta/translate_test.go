package sparta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/sparta"
	"github.com/c360studio/ontomerge/stix"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

func spartaRef(id, url string) stix.ExternalReference {
	return stix.ExternalReference{SourceName: sparta.SourceName, ExternalID: id, URL: url}
}

func relationship(stixID, relType, source, target string) *stix.Object {
	return &stix.Object{
		Type:             stix.TypeRelationship,
		ID:               stixID,
		RelationshipType: relType,
		SourceRef:        source,
		TargetRef:        target,
	}
}

func mustStore(t *testing.T, objs ...*stix.Object) *stix.MemoryStore {
	t.Helper()
	store := stix.NewMemoryStore()
	for _, obj := range objs {
		require.NoError(t, store.Add(obj))
	}
	return store
}

func newTestTranslator(t *testing.T, store *stix.MemoryStore, scheme sparta.Scheme, strict bool) *sparta.Translator {
	t.Helper()
	mapper, err := sparta.NewURIMapper(scheme)
	require.NoError(t, err)
	resolver := sparta.NewGraphResolver(nil, nil)
	return sparta.NewTranslator(store, mapper, resolver, sparta.TranslatorOptions{StrictIDs: strict})
}

func TestTranslateTechniqueScenario(t *testing.T) {
	tech := &stix.Object{
		Type:        stix.TypeAttackPattern,
		ID:          "attack-pattern--t1",
		Name:        "Monitor Radio Frequencies",
		Description: "Threat actors may monitor radio frequency links.",
		ExternalReferences: []stix.ExternalReference{
			spartaRef("TEC-0001", "https://sparta.aerospace.org/technique/TEC-0001"),
		},
		KillChainPhases: phases("Reconnaissance"),
	}
	store := mustStore(t, tech)
	tr := newTestTranslator(t, store, sparta.SchemePrefixed, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateTechnique(g, tech))

	uri := rdf.IRI(d3f.Namespace + "SPARTA-TEC-0001")
	types := g.ObjectsFor(uri, rdf.IRI(d3f.RDFType))
	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI(d3f.ClassTechnique),
		rdf.IRI(d3f.OWLClass),
		rdf.IRI(d3f.OWLNamedIndividual),
	}, types)
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal("Monitor Radio Frequencies - SPARTA"))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSSeeAlso), rdf.IRI("https://sparta.aerospace.org/technique/TEC-0001"))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.PropDefinition), rdf.Literal("Threat actors may monitor radio frequency links."))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.PropSpartaID), rdf.Literal("TEC-0001"))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSSubClassOf), rdf.IRI(d3f.Namespace+"SPARTAReconnaissanceTechnique"))))
	assert.Equal(t, 8, g.Len())
}

func TestTranslateTechniqueSubTechnique(t *testing.T) {
	tech := &stix.Object{
		Type: stix.TypeAttackPattern,
		ID:   "attack-pattern--t2",
		Name: "Uplink Intercept",
		ExternalReferences: []stix.ExternalReference{
			spartaRef("TEC-0001.02", "https://sparta.aerospace.org/technique/TEC-0001.02"),
		},
		KillChainPhases: phases("Reconnaissance", "Exfiltration"),
	}
	store := mustStore(t, tech)
	tr := newTestTranslator(t, store, sparta.SchemePrefixed, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateTechnique(g, tech))

	uri := rdf.IRI(d3f.Namespace + "SPARTA-TEC-0001.02")
	parents := g.ObjectsFor(uri, rdf.IRI(d3f.RDFSSubClassOf))
	require.Len(t, parents, 1, "a dotted identifier subclasses only its stem")
	assert.Equal(t, d3f.Namespace+"SPARTA-TEC-0001", parents[0].Value)
}

func TestTranslateTechniqueWithoutURL(t *testing.T) {
	tech := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--t3",
		Name:               "  Padded Name  ",
		ExternalReferences: []stix.ExternalReference{spartaRef("TEC-0009", "")},
	}
	store := mustStore(t, tech)
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateTechnique(g, tech))

	uri := rdf.IRI(d3f.Namespace + "TEC-0009")
	assert.Empty(t, g.ObjectsFor(uri, rdf.IRI(d3f.RDFSSeeAlso)))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal("Padded Name - SPARTA"))))
}

func TestTranslateTechniqueNoIdentifier(t *testing.T) {
	tech := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--t4",
		Name:               "Unattributed",
		ExternalReferences: []stix.ExternalReference{{SourceName: "capec", ExternalID: "CAPEC-1"}},
	}
	store := mustStore(t, tech)
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	err := tr.TranslateTechnique(g, tech)
	require.ErrorIs(t, err, sparta.ErrNoIdentifier)
	assert.Zero(t, g.Len(), "a skipped record contributes nothing")
}

func TestTranslateTechniqueUnknownPhaseFatal(t *testing.T) {
	tech := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--t5",
		Name:               "Mystery",
		ExternalReferences: []stix.ExternalReference{spartaRef("TEC-0010", "")},
		KillChainPhases:    phases("Shenanigans"),
	}
	store := mustStore(t, tech)
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	err := tr.TranslateTechnique(rdf.NewGraph(), tech)
	require.ErrorIs(t, err, sparta.ErrUnknownPhase)
	assert.NotErrorIs(t, err, sparta.ErrNoIdentifier)
	assert.Contains(t, err.Error(), "TEC-0010")
	assert.Contains(t, err.Error(), "Shenanigans")
}

func TestTranslateThreat(t *testing.T) {
	threat := &stix.Object{
		Type:        stix.TypeAttackPattern,
		ID:          "attack-pattern--th1",
		Name:        "Spoofed Telemetry",
		Description: `['Adversaries inject forged telemetry frames.']`,
		ExternalReferences: []stix.ExternalReference{
			spartaRef("THR-0042", "https://sparta.aerospace.org/related-work/threat/THR-0042"),
		},
		DefenseInDepth: "Space Segment",
	}
	tech := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--th2",
		Name:               "Monitor Radio Frequencies",
		ExternalReferences: []stix.ExternalReference{spartaRef("TEC-0001", "")},
	}
	store := mustStore(t, threat, tech,
		relationship("relationship--th1", "related-to", threat.ID, tech.ID))
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateThreat(g, threat))

	uri := rdf.IRI(d3f.Namespace + "THR-0042")
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFType), rdf.IRI(d3f.ClassThreat))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSLabel), rdf.Literal("Spoofed Telemetry"))),
		"threat labels carry no suffix")
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.PropDefinition), rdf.Literal("Adversaries inject forged telemetry frames."))),
		"the list wrapper is stripped from the description")
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.RDFSSubClassOf), rdf.IRI(d3f.ClassSpaceSegmentThreat))))
	assert.True(t, g.Has(rdf.NewTriple(uri, rdf.IRI(d3f.PropRelated), rdf.IRI(d3f.Namespace+"TEC-0001"))))
}

func TestTranslateThreatUnknownLayer(t *testing.T) {
	threat := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--th3",
		Name:               "Misfiled",
		ExternalReferences: []stix.ExternalReference{spartaRef("THR-0099", "")},
		DefenseInDepth:     "Orbital Segment",
	}
	store := mustStore(t, threat)
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	err := tr.TranslateThreat(rdf.NewGraph(), threat)
	require.ErrorIs(t, err, sparta.ErrUnknownLayer)
	assert.Contains(t, err.Error(), "THR-0099")
	assert.Contains(t, err.Error(), "Orbital Segment")
}

func TestTranslateThreatSkipsUnresolvableEdge(t *testing.T) {
	threat := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--th4",
		Name:               "Lonely",
		ExternalReferences: []stix.ExternalReference{spartaRef("THR-0100", "")},
		DefenseInDepth:     "Ground Segment",
	}
	orphan := &stix.Object{
		Type: stix.TypeAttackPattern,
		ID:   "attack-pattern--th5",
		Name: "No References",
	}
	store := mustStore(t, threat, orphan,
		relationship("relationship--th2", "related-to", threat.ID, orphan.ID),
		relationship("relationship--th3", "related-to", threat.ID, "attack-pattern--missing"))
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateThreat(g, threat), "unresolvable edges are dropped, not fatal")

	uri := rdf.IRI(d3f.Namespace + "THR-0100")
	assert.Empty(t, g.ObjectsFor(uri, rdf.IRI(d3f.PropRelated)))
	assert.True(t, g.HasSubject(uri), "the node itself is still translated")
}

func TestTranslateCountermeasureCounters(t *testing.T) {
	tech := &stix.Object{
		Type:               stix.TypeAttackPattern,
		ID:                 "attack-pattern--c1",
		Name:               "Monitor Radio Frequencies",
		ExternalReferences: []stix.ExternalReference{spartaRef("TEC-0001", "")},
	}
	sentinel := &stix.Object{
		Type:               stix.TypeCourseOfAction,
		ID:                 "course-of-action--c0",
		Name:               "Countermeasure Not Identified",
		ExternalReferences: []stix.ExternalReference{spartaRef("CM0000", "")},
	}
	cm := &stix.Object{
		Type:               stix.TypeCourseOfAction,
		ID:                 "course-of-action--c12",
		Name:               "Software Source Control",
		ExternalReferences: []stix.ExternalReference{spartaRef("CM0012", "")},
	}
	store := mustStore(t, tech, sentinel, cm,
		relationship("relationship--c1", "mitigates", sentinel.ID, tech.ID),
		relationship("relationship--c2", "mitigates", cm.ID, tech.ID))
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateCountermeasure(g, sentinel))
	require.NoError(t, tr.TranslateCountermeasure(g, cm))

	sentinelURI := rdf.IRI(d3f.Namespace + "CM0000")
	cmURI := rdf.IRI(d3f.Namespace + "CM0012")

	assert.True(t, g.HasSubject(sentinelURI), "the sentinel is still a node")
	assert.Empty(t, g.ObjectsFor(sentinelURI, rdf.IRI(d3f.PropCounters)),
		"the sentinel contributes no relationship edges")

	counters := g.ObjectsFor(cmURI, rdf.IRI(d3f.PropCounters))
	require.Len(t, counters, 1)
	assert.Equal(t, d3f.Namespace+"TEC-0001", counters[0].Value)

	types := g.ObjectsFor(cmURI, rdf.IRI(d3f.RDFType))
	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI(d3f.ClassCountermeasure),
		rdf.IRI(d3f.OWLNamedIndividual),
	}, types, "countermeasures are individuals, never classes")
}

func TestTranslateCountermeasureEnabledBy(t *testing.T) {
	tech := &stix.Object{
		Type: stix.TypeAttackPattern,
		ID:   "attack-pattern--c2",
		Name: "Network Traffic Analysis",
		ExternalReferences: []stix.ExternalReference{
			spartaRef("TEC-0008", ""),
			{SourceName: sparta.D3FENDSourceName, URL: sparta.D3FENDTechniqueURLPrefix + "NetworkTrafficAnalysis/"},
		},
	}
	cm := &stix.Object{
		Type:               stix.TypeCourseOfAction,
		ID:                 "course-of-action--c20",
		Name:               "Traffic Inspection",
		ExternalReferences: []stix.ExternalReference{spartaRef("CM0020", "")},
	}
	store := mustStore(t, tech, cm,
		relationship("relationship--c3", "mitigates", cm.ID, tech.ID))
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateCountermeasure(g, cm))

	uri := rdf.IRI(d3f.Namespace + "CM0020")
	enabled := g.ObjectsFor(uri, rdf.IRI(d3f.PropEnabledBy))
	require.Len(t, enabled, 1)
	assert.Equal(t, d3f.Namespace+"NetworkTrafficAnalysis", enabled[0].Value)
	assert.Empty(t, g.ObjectsFor(uri, rdf.IRI(d3f.PropCounters)),
		"a target with an ontology reference yields an enabled-by edge instead of counters")
}

func TestTranslateCountermeasureControlReferences(t *testing.T) {
	cm := &stix.Object{
		Type: stix.TypeCourseOfAction,
		ID:   "course-of-action--c30",
		Name: "Information Flow Enforcement",
		ExternalReferences: []stix.ExternalReference{
			spartaRef("CM0030", ""),
			{SourceName: "NIST", ExternalID: "AC-4(1)", URL: sparta.ControlReferenceURLPrefix + "AC-4%281%29"},
			{SourceName: "NIST", ExternalID: "SC-8", URL: sparta.ControlReferenceURLPrefix + "SC-8"},
			{SourceName: "NIST", ExternalID: "IR-4", URL: "https://example.org/elsewhere/IR-4"},
		},
	}
	store := mustStore(t, cm)
	tr := newTestTranslator(t, store, sparta.SchemeBare, false)

	g := rdf.NewGraph()
	require.NoError(t, tr.TranslateCountermeasure(g, cm))

	uri := rdf.IRI(d3f.Namespace + "CM0030")
	related := g.ObjectsFor(uri, rdf.IRI(d3f.PropRelated))
	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI(d3f.Namespace + "NIST_SP_800-53_R5_AC-4_1_"),
		rdf.IRI(d3f.Namespace + "NIST_SP_800-53_R5_SC-8"),
	}, related, "only references under the control reference url count")
}

func TestControlURI(t *testing.T) {
	tests := []struct {
		control string
		local   string
	}{
		{"AC-4(1)", "NIST_SP_800-53_R5_AC-4_1_"},
		{"AC-17", "NIST_SP_800-53_R5_AC-17"},
		{"SC-8(1)", "NIST_SP_800-53_R5_SC-8_1_"},
		{"SI-4(24)", "NIST_SP_800-53_R5_SI-4_24_"},
	}
	for _, tt := range tests {
		got := sparta.ControlURI(tt.control)
		assert.Equal(t, d3f.Namespace+tt.local, got.Value, tt.control)
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`['Wrapped in a list.']`, "Wrapped in a list."},
		{`["Double quoted."]`, "Double quoted."},
		{"  ['Padded.']  ", "Padded."},
		{"Plain text.", "Plain text."},
		{`['It's got an apostrophe.']`, "It's got an apostrophe."},
		{"['']", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sparta.CleanDescription(tt.in), "input %q", tt.in)
	}
}
