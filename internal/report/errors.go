package report

import "errors"

var (
	// ErrValidation is returned for malformed payloads or missing required keys.
	ErrValidation = errors.New("invalid report request")
	// ErrDerivation is returned for malformed record values inside an
	// otherwise well-formed payload, e.g. a non-numeric score.
	ErrDerivation = errors.New("malformed exam records")
)
