package sparta

import "errors"

// Sentinel errors raised during translation. Records failing with
// ErrNoIdentifier are skipped by the driver; every other error aborts the
// run before the ontology file is rewritten.
var (
	// ErrNoIdentifier means no usable sparta reference was found on a
	// record.
	ErrNoIdentifier = errors.New("no sparta identifier")

	// ErrUnknownLayer means a threat carries a defense-in-depth layer
	// missing from the lookup table.
	ErrUnknownLayer = errors.New("unknown defense-in-depth layer")

	// ErrUnknownPhase means a technique carries a kill-chain phase
	// missing from the tactic table.
	ErrUnknownPhase = errors.New("unknown kill chain phase")

	// ErrUnknownScheme means the configured URI scheme is not one of the
	// supported values.
	ErrUnknownScheme = errors.New("unknown uri scheme")
)
