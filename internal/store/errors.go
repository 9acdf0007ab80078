// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same username already exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNoUserWasFound is returned when a lookup by username matches no row.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordingNotFound is returned when a recording with the given id
	// does not exist for the given owner.
	ErrRecordingNotFound = errors.New("recording was not found")

	// ErrInvalidOwner is returned when an owner is not a normalized
	// namespace token and cannot be mapped to a directory.
	ErrInvalidOwner = errors.New("invalid owner namespace")

	// ErrUnknownBackend is returned by [NewStorages] for an unsupported
	// dataset backend.
	ErrUnknownBackend = errors.New("unknown dataset backend")

	// ErrUnknownDriver is returned by [NewConnect] for an unsupported
	// database driver.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrDatabaseRequired is returned when the configuration needs a
	// relational database but none was opened.
	ErrDatabaseRequired = errors.New("database connection is required")
)

// Low-level operation errors. These are returned (or wrapped) by store
// methods when an SQL or filesystem operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrWritingAudio is returned when an audio file cannot be written.
	ErrWritingAudio = errors.New("failed to write audio file")

	// ErrReadingAudio is returned when an audio file cannot be read.
	ErrReadingAudio = errors.New("failed to read audio file")

	// ErrReadingIndex is returned when an owner's metadata.json cannot be
	// read or decoded.
	ErrReadingIndex = errors.New("failed to read metadata index")

	// ErrWritingIndex is returned when an owner's metadata.json cannot be
	// replaced.
	ErrWritingIndex = errors.New("failed to write metadata index")
)
