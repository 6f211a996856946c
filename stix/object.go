// Package stix loads STIX 2 bundles into an in-memory store and answers
// filter queries over them.
package stix

import (
	"encoding/json"
	"fmt"
)

// STIX object types the translators care about.
const (
	// TypeAttackPattern is the STIX type of techniques and threats.
	TypeAttackPattern = "attack-pattern"

	// TypeCourseOfAction is the STIX type of countermeasures.
	TypeCourseOfAction = "course-of-action"

	// TypeRelationship is the STIX type linking two objects.
	TypeRelationship = "relationship"
)

// Bundle is the top-level STIX 2 bundle envelope.
type Bundle struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Objects []json.RawMessage `json:"objects"`
}

// ExternalReference points from a STIX object into another naming scheme.
type ExternalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id,omitempty"`
	URL        string `json:"url,omitempty"`
}

// KillChainPhase tags an object with a phase of a named kill chain.
type KillChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

// Object is one STIX domain or relationship object. Only the fields the
// translators read are typed; the full decoded document is retained for
// filter evaluation.
type Object struct {
	Type               string              `json:"type"`
	ID                 string              `json:"id"`
	Name               string              `json:"name,omitempty"`
	Description        string              `json:"description,omitempty"`
	ExternalReferences []ExternalReference `json:"external_references,omitempty"`
	KillChainPhases    []KillChainPhase    `json:"kill_chain_phases,omitempty"`
	DefenseInDepth     string              `json:"x_sparta_defense_in_depth,omitempty"`
	SourceRef          string              `json:"source_ref,omitempty"`
	TargetRef          string              `json:"target_ref,omitempty"`
	RelationshipType   string              `json:"relationship_type,omitempty"`

	raw map[string]any
}

// decodeObject parses one bundle entry into an Object, keeping the raw
// document for filter evaluation.
func decodeObject(data json.RawMessage) (*Object, error) {
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}
	if obj.Type == "" {
		return nil, fmt.Errorf("object has no type")
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%s object has no id", obj.Type)
	}
	if err := json.Unmarshal(data, &obj.raw); err != nil {
		return nil, fmt.Errorf("decoding object %s: %w", obj.ID, err)
	}
	return &obj, nil
}

// syncRaw rebuilds the raw document from the typed fields. Used when
// objects are constructed in code rather than decoded from a bundle.
func (o *Object) syncRaw() error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding object %s: %w", o.ID, err)
	}
	o.raw = nil
	return json.Unmarshal(data, &o.raw)
}
