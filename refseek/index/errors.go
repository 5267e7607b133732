package index

import "errors"

var (
	// ErrInvalidIndex reports a magic mismatch, truncated stream, or
	// inconsistent length prefix during deserialization.
	ErrInvalidIndex = errors.New("invalid suffix array index")

	// ErrIndexBuild reports a failure of the suffix array collaborator.
	ErrIndexBuild = errors.New("could not construct suffix array")
)
