package sparta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

// defenseInDepthClasses maps a threat's defense-in-depth layer label to
// its parent class in the ontology. The labels come verbatim from the
// dataset; a label missing here is a fatal error, because an unnoticed
// spelling drift would silently orphan every threat under it.
var defenseInDepthClasses = map[string]string{
	"Ground Segment": d3f.ClassGroundSegmentThreat,
	"Space Segment":  d3f.ClassSpaceSegmentThreat,
	"Link Segment":   d3f.ClassLinkSegmentThreat,
	"User Segment":   d3f.ClassUserSegmentThreat,
}

// DefenseInDepthClass returns the parent class IRI for a threat's
// defense-in-depth layer label.
func DefenseInDepthClass(layer string) (string, error) {
	class, ok := defenseInDepthClasses[layer]
	if !ok {
		return "", fmt.Errorf("%w %q (known layers: %s)", ErrUnknownLayer, layer, strings.Join(KnownLayers(), ", "))
	}
	return class, nil
}

// KnownLayers returns the accepted defense-in-depth labels, sorted.
func KnownLayers() []string {
	layers := make([]string, 0, len(defenseInDepthClasses))
	for layer := range defenseInDepthClasses {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	return layers
}

// tacticNames enumerates the SPARTA tactics that may appear as kill-chain
// phase names on techniques.
var tacticNames = []string{
	"Reconnaissance",
	"Resource Development",
	"Initial Access",
	"Execution",
	"Persistence",
	"Defense Evasion",
	"Lateral Movement",
	"Exfiltration",
	"Impact",
}

// phaseClasses maps a phase name to its tactic-level technique class
// name, built with the same synthesis rule for every tactic.
var phaseClasses = func() map[string]string {
	classes := make(map[string]string, len(tacticNames))
	for _, name := range tacticNames {
		classes[name] = phaseClassName(name)
	}
	return classes
}()

// phaseClassName synthesizes the class name for a kill-chain phase: the
// SPARTA tag, the phase name, and the Technique suffix, with all
// whitespace removed.
func phaseClassName(phase string) string {
	return strings.ReplaceAll("SPARTA"+phase+"Technique", " ", "")
}

// PhaseClass returns the parent class IRI for a kill-chain phase name.
// The phase must be one of the known SPARTA tactics; the synthesized
// classes pre-exist in the ontology and an unknown phase would subclass a
// technique beneath a class nothing defines.
func PhaseClass(phase string) (string, error) {
	class, ok := phaseClasses[phase]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownPhase, phase)
	}
	return d3f.IRI(class), nil
}
