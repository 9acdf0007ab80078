// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"
	"time"
)

// defaultConfig returns the lowest-priority configuration layer.
//
// TokenSignKey defaults to a random per-process key, so tokens issued before
// a restart stop validating unless a key is configured.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			IdentityMode:     IdentityModePassword,
			AdminUsername:    "admin",
			AdminSecret:      InsecureAdminSecret,
			TokenSignKey:     randomKey(),
			TokenIssuer:      "yorlect",
			TokenDuration:    24 * time.Hour,
			RecordingsTarget: 30,
			Version:          "dev",
			LogLevel:         "info",
		},
		Storage: Storage{
			Backend: BackendSQL,
			DB: DB{
				Driver: DriverSQLite,
				DSN:    "yorlect.db",
			},
			Files: Files{
				DataDir: "data",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
			MaxUploadBytes: 50 << 20,
		},
		Export: Export{
			S3Prefix: "exports",
		},
	}
}

// randomKey returns 32 random bytes hex encoded. rand.Read never fails; it
// aborts the program when the system source is broken.
func randomKey() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if !slices.Contains([]string{IdentityModePassword, IdentityModeUsername}, cfg.App.IdentityMode) {
		return fmt.Errorf("%w: unknown identity mode %q", ErrInvalidAppConfigs, cfg.App.IdentityMode)
	}
	if cfg.App.AdminSecret == "" || cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return fmt.Errorf("%w: admin secret and token settings are required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 || cfg.App.RecordingsTarget <= 0 {
		return fmt.Errorf("%w: token duration and recordings target must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.IdentityMode == IdentityModePassword && cfg.App.AdminUsername == "" {
		return fmt.Errorf("%w: admin username is required in password mode", ErrInvalidAppConfigs)
	}

	if !slices.Contains([]string{BackendSQL, BackendFiles}, cfg.Storage.Backend) {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}
	if cfg.Storage.Files.DataDir == "" {
		return fmt.Errorf("%w: data dir is required", ErrInvalidStorageConfigs)
	}
	if cfg.UsesDatabase() {
		if !slices.Contains([]string{DriverSQLite, DriverPostgres}, cfg.Storage.DB.Driver) {
			return fmt.Errorf("%w: unknown database driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
		}
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: address and upload limit are required", ErrInvalidServerConfigs)
	}

	return nil
}
