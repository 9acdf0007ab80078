// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// ErrorClassification is the result type returned by
// [ErrorClassificator.Classify].
type ErrorClassification int

const (
	// Unclassified is the default for errors with no special meaning.
	Unclassified ErrorClassification = iota

	// UniqueViolation means an insert collided with an existing key.
	UniqueViolation

	// ConnectionFailure means the database could not be reached. It is
	// logged at a higher level than other failures.
	ConnectionFailure

	// InvalidInput means a value could not be converted to the column type,
	// e.g. a malformed UUID.
	InvalidInput
)

// String returns a short name for logging.
func (c ErrorClassification) String() string {
	switch c {
	case UniqueViolation:
		return "unique_violation"
	case ConnectionFailure:
		return "connection_failure"
	case InvalidInput:
		return "invalid_input"
	default:
		return "unclassified"
	}
}
