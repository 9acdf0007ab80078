// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the yorlect HTTP API on behalf of the
// command-line client.
//
// [ServerAdapter] hides the transport from the client commands. Non-2xx
// responses are mapped by mapHTTPError to the sentinel errors in errors.go,
// so callers can use [errors.Is] (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/yorlect/models"
)

// ServerAdapter is the client-side view of the API. Authenticated calls
// carry the bearer token set by a login or by SetToken.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to subsequent requests.
	SetToken(token string)

	// Token returns the current bearer token, or "" when none is set.
	Token() string

	// Register creates the account and stores the issued token.
	Register(ctx context.Context, credentials models.Credentials) (models.Identity, error)

	// Login authenticates a speaker and stores the issued token.
	Login(ctx context.Context, credentials models.Credentials) (models.Identity, error)

	// AdminLogin exchanges the shared admin secret for an admin token.
	AdminLogin(ctx context.Context, secret string) (models.Identity, error)

	Version(ctx context.Context) (string, error)

	// Upload sends one audio file with its metadata.
	Upload(ctx context.Context, filename string, audio io.Reader, metadata models.Metadata) (models.Recording, error)

	ListRecordings(ctx context.Context) ([]models.Recording, error)
	Progress(ctx context.Context) (models.Progress, error)
	DownloadAudio(ctx context.Context, id string) ([]byte, error)

	// ExportCSV and ExportZip download the caller's own bundle; with admin
	// set they use the dataset-wide endpoints, scoped to owner when owner is
	// not empty. ExportZip also returns the number of files the server
	// left out.
	ExportCSV(ctx context.Context, admin bool, owner string) ([]byte, error)
	ExportZip(ctx context.Context, admin bool, owner string) ([]byte, int, error)

	AdminRecordings(ctx context.Context) ([]models.Recording, error)
	AdminOwners(ctx context.Context) ([]string, error)
	AdminUsers(ctx context.Context) ([]models.User, error)
	AdminPublish(ctx context.Context, owner string) (models.PublishResult, error)
	AdminDeleteAll(ctx context.Context) (models.DeleteReport, error)
}
