package source

import "errors"

// Sentinel errors for header decoding and registry loading.
var (
	// ErrInvalidHeader indicates a column header could not be decoded.
	ErrInvalidHeader = errors.New("invalid source header")

	// ErrMissingParent indicates an entity references a root that is not defined.
	ErrMissingParent = errors.New("entity parent not found")

	// ErrEntityCycle indicates the root references of a registry form a cycle.
	ErrEntityCycle = errors.New("entity parent cycle")

	// ErrDuplicateEntity indicates two entities share a name, email or key.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrInvalidEntity indicates an entity definition is missing its name.
	ErrInvalidEntity = errors.New("invalid entity definition")
)
