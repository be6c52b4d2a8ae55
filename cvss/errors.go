package cvss

import "errors"

// Sentinel errors for vector operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrUnknownVersion indicates the vector prefix names a version that is not supported.
	ErrUnknownVersion = errors.New("unknown cvss version")

	// ErrInvalidVector indicates a vector string could not be parsed.
	ErrInvalidVector = errors.New("invalid cvss vector")

	// ErrUnrecognizedToken indicates strict parsing met a token that is not a
	// recognized attribute or value for the detected version.
	ErrUnrecognizedToken = errors.New("unrecognized vector token")

	// ErrVersionMismatch indicates a vector and a source (or two vectors) belong
	// to different version classes.
	ErrVersionMismatch = errors.New("cvss version mismatch")

	// ErrMissingHost indicates a source was constructed without a hosting entity.
	ErrMissingHost = errors.New("source hosting entity is required")
)
