package sparta

import (
	"fmt"
	"strings"

	"github.com/c360studio/ontomerge/stix"
)

// ResolveReference scans a record's external references in order and
// returns the first one owned by SPARTA. With strict set, references
// whose identifier begins with the D3FEND reserved prefix are passed
// over; later dataset revisions list D3FEND back-references under the
// sparta source name and those must not be mistaken for the record's own
// identifier. References with an empty identifier are never usable.
func ResolveReference(obj *stix.Object, strict bool) (stix.ExternalReference, error) {
	for _, ref := range obj.ExternalReferences {
		if ref.SourceName != SourceName || ref.ExternalID == "" {
			continue
		}
		if strict && strings.HasPrefix(ref.ExternalID, ReservedPrefix) {
			continue
		}
		return ref, nil
	}
	return stix.ExternalReference{}, fmt.Errorf("record %s: %w", obj.ID, ErrNoIdentifier)
}

// ResolveID returns the SPARTA identifier of a record.
func ResolveID(obj *stix.Object, strict bool) (ID, error) {
	ref, err := ResolveReference(obj, strict)
	if err != nil {
		return "", err
	}
	return ID(ref.ExternalID), nil
}
