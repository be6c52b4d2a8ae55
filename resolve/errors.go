package resolve

import "errors"

var (
	// ErrNoCandidates indicates a finding carried no vectors.
	ErrNoCandidates = errors.New("no candidate vectors")

	// ErrInvalidPolicy indicates a version-selection policy literal is unknown.
	ErrInvalidPolicy = errors.New("invalid version policy")
)
