package sparta

import (
	"fmt"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/stix"
)

// InferParents returns the subclass targets for a technique. A sub-item
// identifier has exactly one parent, the technique named by the
// identifier before the dot, minted with the run's URI scheme. Any other
// technique is parented beneath the tactic class of each kill-chain phase
// listed on the record, which may yield zero, one, or many parents.
func InferParents(id ID, phases []stix.KillChainPhase, uris *URIMapper) ([]rdf.Term, error) {
	if id.IsSub() {
		return []rdf.Term{uris.URIFor(KindTechnique, id.Parent())}, nil
	}
	parents := make([]rdf.Term, 0, len(phases))
	for _, phase := range phases {
		class, err := PhaseClass(phase.PhaseName)
		if err != nil {
			return nil, fmt.Errorf("technique %s: %w", id, err)
		}
		parents = append(parents, rdf.IRI(class))
	}
	return parents, nil
}
