// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
)

// Storages bundles every store the services depend on.
type Storages struct {
	UserRepository UserRepository
	DatasetStore   DatasetStore

	// DB is nil when neither the backend nor the identity mode needs a
	// relational database.
	DB *DB
}

// NewStorages opens the database when the configuration needs one, applies
// migrations and constructs the dataset backend selected by
// cfg.Storage.Backend.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	s := &Storages{}

	if cfg.UsesDatabase() {
		db, err := NewConnect(ctx, cfg.Storage.DB, log)
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			db.Close()
			return nil, fmt.Errorf("error applying migrations: %w", err)
		}
		s.DB = db
		s.UserRepository = NewUserRepository(db, log)
	}

	var err error
	switch cfg.Storage.Backend {
	case config.BackendSQL:
		s.DatasetStore, err = NewSQLDatasetStore(s.DB, cfg.Storage.Files.DataDir, log)
	case config.BackendFiles:
		s.DatasetStore, err = NewFileDatasetStore(cfg.Storage.Files.DataDir, log)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the dataset backend and the database connection.
func (s *Storages) Close() error {
	var errs []error
	if s.DatasetStore != nil {
		errs = append(errs, s.DatasetStore.Close())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}
