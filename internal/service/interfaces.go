package service

import (
	"context"

	"github.com/MKhiriev/yorlect/models"
)

// AuthService resolves who is calling: account registration and login,
// the shared-secret admin gate and session tokens.
type AuthService interface {
	// Register creates the account (password mode) and the owner namespace,
	// returning the identity to issue a token for.
	Register(ctx context.Context, credentials models.Credentials) (models.Identity, error)
	Authenticate(ctx context.Context, credentials models.Credentials) (models.Identity, error)
	AuthenticateAdmin(ctx context.Context, secret string) (models.Identity, error)

	// BootstrapAdmin creates the configured admin account once. It is a
	// no-op in username mode and when any admin exists.
	BootstrapAdmin(ctx context.Context) error

	CreateToken(ctx context.Context, identity models.Identity) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	NormalizeOwner(raw string) (string, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RecordingService ingests recordings and answers queries over the dataset.
type RecordingService interface {
	Ingest(ctx context.Context, owner string, audio []byte, originalFilename string, metadata models.Metadata) (models.Recording, error)

	ListForOwner(ctx context.Context, owner string) ([]models.Recording, error)
	ListAll(ctx context.Context) ([]models.Recording, error)
	ListOwners(ctx context.Context) ([]string, error)

	GetRecording(ctx context.Context, owner, id string) (models.Recording, error)
	OpenAudio(ctx context.Context, rec models.Recording) ([]byte, error)

	Progress(ctx context.Context, owner string) (models.Progress, error)

	// DeleteAll wipes every recording of every owner.
	DeleteAll(ctx context.Context) (models.DeleteReport, error)
}

// RecordingServiceWrapper defines middleware composition for RecordingService.
// Implementations wrap an existing RecordingService to add behavior such as
// validating.
type RecordingServiceWrapper interface {
	Wrap(RecordingService) RecordingService // returns a decorated RecordingService applying additional behavior
}

// ExportService builds the dataset bundles handed to annotators.
type ExportService interface {
	ExportMetadataCSV(ctx context.Context, scope models.ExportScope) ([]byte, error)
	ExportZip(ctx context.Context, scope models.ExportScope) (models.ZipExport, error)
	PublishZip(ctx context.Context, scope models.ExportScope) (models.PublishResult, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
