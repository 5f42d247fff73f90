package models

import "errors"

// Domain error taxonomy. Storage failures and provider failures are
// wrapped with context by the layer that hit them; these sentinels
// classify the caller-visible outcomes.
var (
	// ErrInvalidInput marks a missing or malformed required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that is absent or not
	// owned by the caller. Ownership mismatches fold into this to
	// avoid existence leakage.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation (duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks a failed credential or token check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream marks an enrichment provider call that failed or
	// returned an unusable payload. Only ever logged, never surfaced.
	ErrUpstream = errors.New("upstream failure")
)
