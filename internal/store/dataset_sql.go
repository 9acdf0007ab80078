// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

// sqlDatasetStore keeps the recording index in the recordings table and the
// audio bytes on disk.
type sqlDatasetStore struct {
	db     *DB
	files  *audioFiles
	logger *logger.Logger
}

// NewSQLDatasetStore constructs a [DatasetStore] indexing recordings in db
// and storing audio files under dataDir.
func NewSQLDatasetStore(db *DB, dataDir string, logger *logger.Logger) (DatasetStore, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	files, err := newAudioFiles(dataDir)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("data_dir", dataDir).Msg("creating sql dataset store")
	return &sqlDatasetStore{db: db, files: files, logger: logger}, nil
}

func (s *sqlDatasetStore) EnsureNamespace(_ context.Context, owner string) error {
	_, err := s.files.ensureNamespace(owner)
	return err
}

func (s *sqlDatasetStore) SaveAudio(ctx context.Context, owner, filename string, data []byte) (string, error) {
	return s.files.save(ctx, owner, filename, data)
}

// AppendRecording inserts rec into the recordings table.
func (s *sqlDatasetStore) AppendRecording(ctx context.Context, rec models.Recording) error {
	log := logger.FromContext(ctx)

	query, args, err := s.db.insertRecordingQuery(rec)
	if err != nil {
		log.Err(err).Str("func", "*sqlDatasetStore.AppendRecording").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sqlDatasetStore.AppendRecording").Str("id", rec.ID).Msg("error inserting recording")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqlDatasetStore) ListForOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	return s.selectRecordings(ctx, squirrel.Eq{"username": owner})
}

func (s *sqlDatasetStore) ListAll(ctx context.Context) ([]models.Recording, error) {
	return s.selectRecordings(ctx, nil)
}

func (s *sqlDatasetStore) ListOwners(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.selectOwnersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	owners := make([]string, 0)
	if err = s.db.SelectContext(ctx, &owners, query, args...); err != nil {
		log.Err(err).Str("func", "*sqlDatasetStore.ListOwners").Msg("error selecting owners")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return owners, nil
}

func (s *sqlDatasetStore) GetRecording(ctx context.Context, owner, id string) (models.Recording, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.selectRecordingsQuery(squirrel.Eq{"username": owner, "id": id})
	if err != nil {
		return models.Recording{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var rec models.Recording
	if err = s.db.GetContext(ctx, &rec, query, args...); err != nil {
		// A malformed id cannot match a UUID column.
		if errors.Is(err, sql.ErrNoRows) || s.db.errorClassificator.Classify(err) == InvalidInput {
			return models.Recording{}, ErrRecordingNotFound
		}
		log.Err(err).Str("func", "*sqlDatasetStore.GetRecording").Msg("error selecting recording")
		return models.Recording{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return rec, nil
}

func (s *sqlDatasetStore) ReadAudio(_ context.Context, rec models.Recording) ([]byte, error) {
	return s.files.read(rec.Owner, rec.StoredFilename)
}

// DeleteAll removes the audio files first and then empties the table, so a
// failed file removal never leaves an index row without its file.
func (s *sqlDatasetStore) DeleteAll(ctx context.Context) (models.DeleteReport, error) {
	log := logger.FromContext(ctx)

	report := s.files.removeAll(ctx)

	query, args, err := s.db.deleteRecordingsQuery()
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sqlDatasetStore.DeleteAll").Msg("error clearing recordings table")
		return report, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	s.files.removeEmptyNamespaces(ctx)

	return report, nil
}

// Close is a no-op: the connection belongs to [Storages].
func (s *sqlDatasetStore) Close() error {
	return nil
}

func (s *sqlDatasetStore) selectRecordings(ctx context.Context, where squirrel.Sqlizer) ([]models.Recording, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.selectRecordingsQuery(where)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	recordings := make([]models.Recording, 0)
	if err = s.db.SelectContext(ctx, &recordings, query, args...); err != nil {
		log.Err(err).Str("func", "*sqlDatasetStore.selectRecordings").Msg("error selecting recordings")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	for i := range recordings {
		recordings[i].CreatedAt = recordings[i].CreatedAt.UTC()
	}

	return recordings, nil
}
