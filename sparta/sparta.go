// Package sparta translates SPARTA STIX records into D3FEND ontology
// triples and maintains the merged ontology file on disk.
package sparta

import "strings"

// Tokens identifying SPARTA content inside a STIX bundle.
const (
	// SourceName tags external references owned by SPARTA itself.
	SourceName = "sparta"

	// KillChainName tags kill-chain phases belonging to the SPARTA matrix.
	KillChainName = "sparta"

	// TechniqueURLToken appears in the reference URL of every technique.
	TechniqueURLToken = "/technique"

	// ThreatURLToken appears in the reference URL of every related threat.
	ThreatURLToken = "/threat"
)

// Tokens tied to the D3FEND side of the merge.
const (
	// ReservedPrefix starts every D3FEND technique identifier. Dataset
	// revisions from v2.0 on carry back-references with these identifiers
	// under the sparta source name, so the strict identifier filter
	// rejects them.
	ReservedPrefix = "D3-"

	// D3FENDSourceName tags external references into D3FEND.
	D3FENDSourceName = "d3fend"

	// D3FENDTechniqueURLPrefix starts the url of every D3FEND technique
	// reference. The remainder, less a trailing slash, is the technique's
	// name local to the ontology namespace.
	D3FENDTechniqueURLPrefix = "https://d3fend.mitre.org/technique/d3f:"

	// ControlReferenceURLPrefix starts the url of NIST control references
	// attached to countermeasures.
	ControlReferenceURLPrefix = "https://sparta.aerospace.org/countermeasures/references/"

	// ControlURIPrefix starts the local name of NIST SP 800-53 control
	// nodes in the ontology.
	ControlURIPrefix = "NIST_SP_800-53_R5_"
)

// SentinelCountermeasureID is the catch-all "countermeasure not
// identified" record. It is translated as a node but contributes no
// relationship edges.
const SentinelCountermeasureID ID = "CM0000"

// TechniqueLabelSuffix is appended to technique labels.
const TechniqueLabelSuffix = " - SPARTA"

// ID is a SPARTA identifier such as TEC-0001, TEC-0001.01, or CM0012.
// A dot marks a sub-item of the identifier before the dot.
type ID string

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// IsSub reports whether the identifier names a sub-item.
func (id ID) IsSub() bool {
	return strings.Contains(string(id), ".")
}

// Parent returns the identifier truncated at the first dot. For
// identifiers without a dot it returns the identifier unchanged.
func (id ID) Parent() ID {
	if i := strings.IndexByte(string(id), '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// Kind distinguishes the three translated record kinds.
type Kind string

const (
	// KindTechnique is a SPARTA attack technique.
	KindTechnique Kind = "technique"

	// KindThreat is a SPARTA related threat.
	KindThreat Kind = "threat"

	// KindCountermeasure is a SPARTA countermeasure.
	KindCountermeasure Kind = "countermeasure"
)
