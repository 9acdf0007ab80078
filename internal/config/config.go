// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Identity modes accepted by [App.IdentityMode].
const (
	// IdentityModePassword requires registration with a password; accounts
	// live in the users table and the bootstrap admin is created on start.
	IdentityModePassword = "password"

	// IdentityModeUsername accepts any free-text username without a password;
	// admin access is granted only through the shared admin secret.
	IdentityModeUsername = "username"
)

// Storage backends accepted by [Storage.Backend].
const (
	// BackendSQL keeps the recording index in the relational database.
	BackendSQL = "sql"

	// BackendFiles keeps the recording index in one metadata.json per owner.
	BackendFiles = "files"
)

// Database drivers accepted by [DB.Driver].
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// InsecureAdminSecret is used when no admin secret is configured.
// Operators are expected to override it; the server logs a warning.
const InsecureAdminSecret = "yorlect_admin"

// StructuredConfig is the top-level configuration container for the
// yorlect server. It is populated by merging values from command-line flags,
// environment variables (optionally loaded from a .env file), an optional
// JSON file and finally built-in defaults.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity, token and dataset settings.
	App App `envPrefix:"APP_"`

	// Storage selects the dataset backend and its locations.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and request limits of the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Export holds the optional object storage target for published bundles.
	Export Export `envPrefix:"EXPORT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// LegacyAdminPass is read from YORLECT_ADMIN_PASS, the variable older
	// deployments used for the admin password. App.AdminSecret wins when both
	// are set.
	LegacyAdminPass string `env:"YORLECT_ADMIN_PASS" json:"-"`
}

// App holds application-level configuration values.
type App struct {
	// IdentityMode is either "password" or "username".
	// Env: APP_IDENTITY_MODE
	IdentityMode string `env:"IDENTITY_MODE"`

	// AdminUsername is the login of the bootstrap admin (password mode).
	// Env: APP_ADMIN_USERNAME
	AdminUsername string `env:"ADMIN_USERNAME"`

	// AdminSecret is the bootstrap admin password and the shared secret of
	// the admin login endpoint.
	// Env: APP_ADMIN_SECRET
	AdminSecret string `env:"ADMIN_SECRET"`

	// TokenSignKey is the HMAC key used to sign session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of issued tokens (e.g. "24h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// RecordingsTarget is the per-owner number of recordings shown as 100%
	// progress.
	// Env: APP_RECORDINGS_TARGET
	RecordingsTarget int `env:"RECORDINGS_TARGET"`

	// Version is reported by GET /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for the dataset backends.
type Storage struct {
	// Backend is either "sql" or "files".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the audio storage settings shared by both backends.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database.
type DB struct {
	// Driver is "sqlite3" or "pgx".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name: a file path for SQLite or a
	// postgres:// URL for PostgreSQL.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings for stored audio.
type Files struct {
	// DataDir is the storage root; it holds one sub-directory per owner.
	// Env: STORAGE_FILES_DATA_DIR
	DataDir string `env:"DATA_DIR"`
}

// Server holds network and limit settings of the HTTP server.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling time of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxUploadBytes caps the size of a multipart recording upload.
	// Env: SERVER_MAX_UPLOAD_BYTES
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES"`
}

// Export configures publishing of zip bundles to an S3-compatible bucket.
// Publishing is disabled while S3Bucket is empty.
type Export struct {
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Prefix          string `env:"S3_PREFIX"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

// PublishEnabled reports whether a bucket is configured.
func (e Export) PublishEnabled() bool {
	return e.S3Bucket != ""
}

// UsesDatabase reports whether the configuration requires an open
// relational database connection.
func (cfg *StructuredConfig) UsesDatabase() bool {
	return cfg.Storage.Backend == BackendSQL || cfg.App.IdentityMode == IdentityModePassword
}

// HasInsecureAdminSecret reports whether the built-in admin secret is in use.
func (cfg *StructuredConfig) HasInsecureAdminSecret() bool {
	return cfg.App.AdminSecret == InsecureAdminSecret
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources. Earlier sources win for non-zero fields:
//  1. Command-line flags
//  2. Environment variables (a .env file is loaded into the environment first)
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withFlags(os.Args[1:]).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
