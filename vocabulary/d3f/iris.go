// Package d3f defines IRI constants for the D3FEND ontology namespace and
// the standard RDF/RDFS/OWL terms the translators emit alongside them.
package d3f

// Namespace is the base IRI prefix for D3FEND ontology terms.
const Namespace = "http://d3fend.mitre.org/ontologies/d3fend.owl#"

// Standard ontology IRI constants.
const (
	// RDFType is the rdf:type property.
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// RDFSLabel is the rdfs:label property.
	RDFSLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	// RDFSSeeAlso is the rdfs:seeAlso property.
	RDFSSeeAlso = "http://www.w3.org/2000/01/rdf-schema#seeAlso"

	// RDFSSubClassOf is the rdfs:subClassOf property.
	RDFSSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"

	// OWLClass is the owl:Class class.
	OWLClass = "http://www.w3.org/2002/07/owl#Class"

	// OWLNamedIndividual is the owl:NamedIndividual class.
	OWLNamedIndividual = "http://www.w3.org/2002/07/owl#NamedIndividual"
)

// Class IRIs for SPARTA nodes inside the D3FEND namespace.
const (
	// ClassTechnique is the parent class of every SPARTA technique node.
	ClassTechnique = Namespace + "SPARTATechnique"

	// ClassThreat is the parent class of every SPARTA threat node.
	ClassThreat = Namespace + "SPARTAThreat"

	// ClassCountermeasure is the parent class of every SPARTA
	// countermeasure node.
	ClassCountermeasure = Namespace + "SPARTACountermeasure"
)

// Defense-in-depth threat parent classes. These pre-exist in the ontology;
// the updater attaches threat nodes beneath them and never defines them.
const (
	// ClassGroundSegmentThreat groups threats against ground stations,
	// mission operations centers, and their networks.
	ClassGroundSegmentThreat = Namespace + "SPARTAGroundSegmentThreat"

	// ClassSpaceSegmentThreat groups threats against the space vehicle
	// itself (bus, payload, flight software).
	ClassSpaceSegmentThreat = Namespace + "SPARTASpaceSegmentThreat"

	// ClassLinkSegmentThreat groups threats against the RF or optical
	// links between segments.
	ClassLinkSegmentThreat = Namespace + "SPARTALinkSegmentThreat"

	// ClassUserSegmentThreat groups threats against user terminals and
	// downstream data consumers.
	ClassUserSegmentThreat = Namespace + "SPARTAUserSegmentThreat"
)

// Property IRIs used on translated nodes.
const (
	// PropDefinition holds the prose definition of a node.
	PropDefinition = Namespace + "definition"

	// PropSpartaID holds the stable SPARTA identifier as a literal.
	PropSpartaID = Namespace + "sparta-id"

	// PropRelated links a node to related nodes (threat to technique,
	// countermeasure to control).
	PropRelated = Namespace + "related"

	// PropCounters links a countermeasure to the technique it counters.
	PropCounters = Namespace + "counters"

	// PropEnabledBy links a countermeasure to the defensive technique
	// that enables it.
	PropEnabledBy = Namespace + "enabled-by"
)

// IRI returns the full IRI for a name local to the D3FEND namespace.
func IRI(local string) string {
	return Namespace + local
}
