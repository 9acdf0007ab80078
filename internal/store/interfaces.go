// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store owns every persisted byte of the service: the audio files,
// the recording index and the user accounts.
//
// Two [DatasetStore] backends exist. The relational one keeps the index in
// the recordings table; the filesystem one keeps a metadata.json log per
// owner. Both place audio files at {data dir}/{owner}/{id}{ext}.
package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/yorlect/models"
)

// DatasetStore persists recordings and their index, keyed by owner.
//
// Writing a recording is two steps: SaveAudio then AppendRecording. There is
// no transaction across them; a crash in between leaves an orphan file.
type DatasetStore interface {
	// EnsureNamespace creates the owner's directory if it is missing.
	// It is idempotent.
	EnsureNamespace(ctx context.Context, owner string) error

	// SaveAudio writes data to {owner}/{filename} and returns the full
	// storage path. On failure no file is left behind.
	SaveAudio(ctx context.Context, owner, filename string, data []byte) (string, error)

	// AppendRecording adds rec to the index.
	AppendRecording(ctx context.Context, rec models.Recording) error

	// ListForOwner returns the owner's recordings, newest first.
	ListForOwner(ctx context.Context, owner string) ([]models.Recording, error)

	// ListAll returns every recording, newest first. The filesystem backend
	// leaves out owners whose index cannot be read.
	ListAll(ctx context.Context) ([]models.Recording, error)

	// ListOwners returns the sorted set of known owners. The relational
	// backend lists owners with at least one recording; the filesystem
	// backend lists every owner directory, including namespaces created at
	// registration that are still empty.
	ListOwners(ctx context.Context) ([]string, error)

	// GetRecording returns the owner's recording with id or
	// [ErrRecordingNotFound].
	GetRecording(ctx context.Context, owner, id string) (models.Recording, error)

	// ReadAudio returns the stored bytes of rec.
	ReadAudio(ctx context.Context, rec models.Recording) ([]byte, error)

	// DeleteAll removes every audio file, then clears the index. Individual
	// file failures are reported, not returned.
	DeleteAll(ctx context.Context) (models.DeleteReport, error)

	// Close releases resources held by the backend.
	Close() error
}

// UserRepository persists registered accounts of the password identity mode.
type UserRepository interface {
	// CreateUser inserts user or returns [ErrUserAlreadyExists].
	CreateUser(ctx context.Context, user models.User) error

	// FindUser returns the user with username or [ErrNoUserWasFound].
	FindUser(ctx context.Context, username string) (models.User, error)

	// HasAdmin reports whether at least one admin account exists.
	HasAdmin(ctx context.Context) (bool, error)

	// ListUsers returns every account ordered by username.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ErrorClassificator maps driver errors to an [ErrorClassification] so
// repositories can translate them into sentinel errors independent of the
// database in use.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
