package sparta

import "github.com/c360studio/ontomerge/stix"

// TechniqueFilters selects technique records: attack patterns with a
// sparta reference whose url is a technique page, tagged with at least
// one sparta kill-chain phase.
func TechniqueFilters() []stix.Filter {
	return []stix.Filter{
		stix.NewFilter("type", stix.OpEq, stix.TypeAttackPattern),
		stix.NewFilter("external_references.source_name", stix.OpEq, SourceName),
		stix.NewFilter("external_references.url", stix.OpContains, TechniqueURLToken),
		stix.NewFilter("kill_chain_phases.kill_chain_name", stix.OpEq, KillChainName),
	}
}

// ThreatFilters selects related-threat records: attack patterns with a
// sparta reference whose url is a threat page and no kill-chain phases
// at all. Phase absence is what separates threats from techniques; both
// arrive as attack patterns.
func ThreatFilters() []stix.Filter {
	return []stix.Filter{
		stix.NewFilter("type", stix.OpEq, stix.TypeAttackPattern),
		stix.NewFilter("external_references.source_name", stix.OpEq, SourceName),
		stix.NewFilter("external_references.url", stix.OpContains, ThreatURLToken),
		stix.NewFilter("kill_chain_phases", stix.OpExists, false),
	}
}

// CountermeasureFilters selects countermeasure records: courses of
// action with a sparta reference.
func CountermeasureFilters() []stix.Filter {
	return []stix.Filter{
		stix.NewFilter("type", stix.OpEq, stix.TypeCourseOfAction),
		stix.NewFilter("external_references.source_name", stix.OpEq, SourceName),
	}
}
