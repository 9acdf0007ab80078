// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

// naiveISOLayout matches iso values written without a zone offset, which
// are taken as UTC.
const naiveISOLayout = "2006-01-02T15:04:05.999999999"

// metadataEntry is one element of an owner's metadata.json array. The owner
// itself is implied by the directory the file lives in. timestamp is Unix
// epoch seconds with a fractional part.
type metadataEntry struct {
	ID              string   `json:"id"`
	Filename        string   `json:"filename"`
	Timestamp       float64  `json:"timestamp"`
	ISO             string   `json:"iso"`
	Prompt          *string  `json:"prompt"`
	Name            *string  `json:"name"`
	Age             *int     `json:"age"`
	Gender          *string  `json:"gender"`
	Locale          *string  `json:"locale"`
	Notes           *string  `json:"notes"`
	DurationSeconds *float64 `json:"duration_seconds"`
}

func entryFromRecording(rec models.Recording) metadataEntry {
	created := rec.CreatedAt.UTC()
	return metadataEntry{
		ID:              rec.ID,
		Filename:        rec.StoredFilename,
		Timestamp:       float64(created.UnixMicro()) / 1e6,
		ISO:             created.Format(time.RFC3339Nano),
		Prompt:          rec.Prompt,
		Name:            rec.Name,
		Age:             rec.Age,
		Gender:          rec.Gender,
		Locale:          rec.Locale,
		Notes:           rec.Notes,
		DurationSeconds: rec.DurationSeconds,
	}
}

func (e metadataEntry) recording(owner, dir string) models.Recording {
	id := e.ID
	if id == "" {
		id = strings.TrimSuffix(e.Filename, filepath.Ext(e.Filename))
	}

	return models.Recording{
		ID:             id,
		Owner:          owner,
		StoredFilename: e.Filename,
		StoragePath:    filepath.Join(dir, e.Filename),
		Metadata: models.Metadata{
			Name:   e.Name,
			Age:    e.Age,
			Gender: e.Gender,
			Locale: e.Locale,
			Notes:  e.Notes,
			Prompt: e.Prompt,
		},
		DurationSeconds: e.DurationSeconds,
		CreatedAt:       e.createdAt(),
	}
}

// createdAt prefers iso, which keeps full precision, and falls back to the
// epoch seconds in timestamp.
func (e metadataEntry) createdAt() time.Time {
	if e.ISO != "" {
		if t, err := time.Parse(time.RFC3339Nano, e.ISO); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse(naiveISOLayout, e.ISO); err == nil {
			return t.UTC()
		}
	}

	sec, frac := math.Modf(e.Timestamp)
	return time.Unix(int64(sec), int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC()
}

// fileDatasetStore keeps a metadata.json log next to each owner's audio
// files. Writers of the same owner are serialized by a per-owner mutex;
// different owners never contend.
type fileDatasetStore struct {
	files  *audioFiles
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileDatasetStore constructs a [DatasetStore] rooted at dataDir.
func NewFileDatasetStore(dataDir string, logger *logger.Logger) (DatasetStore, error) {
	files, err := newAudioFiles(dataDir)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("data_dir", dataDir).Msg("creating filesystem dataset store")
	return &fileDatasetStore{
		files:  files,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (s *fileDatasetStore) ownerLock(owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[owner]
	if !ok {
		l = &sync.Mutex{}
		s.locks[owner] = l
	}
	return l
}

func (s *fileDatasetStore) EnsureNamespace(_ context.Context, owner string) error {
	_, err := s.files.ensureNamespace(owner)
	return err
}

func (s *fileDatasetStore) SaveAudio(ctx context.Context, owner, filename string, data []byte) (string, error) {
	return s.files.save(ctx, owner, filename, data)
}

// AppendRecording reads the owner's log, appends rec and replaces the file
// through a temporary file and a rename, all under the owner's lock.
func (s *fileDatasetStore) AppendRecording(ctx context.Context, rec models.Recording) error {
	log := logger.FromContext(ctx)

	dir, err := s.files.ensureNamespace(rec.Owner)
	if err != nil {
		return err
	}

	l := s.ownerLock(rec.Owner)
	l.Lock()
	defer l.Unlock()

	entries, err := readIndex(dir)
	if err != nil {
		log.Err(err).Str("func", "*fileDatasetStore.AppendRecording").Str("owner", rec.Owner).Msg("error reading index")
		return err
	}

	entries = append(entries, entryFromRecording(rec))
	if err = writeIndex(dir, entries); err != nil {
		log.Err(err).Str("func", "*fileDatasetStore.AppendRecording").Str("owner", rec.Owner).Msg("error writing index")
		return err
	}

	return nil
}

// ListForOwner returns the log reversed. An owner without a log has no
// recordings.
func (s *fileDatasetStore) ListForOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	dir, err := s.files.ownerDir(owner)
	if err != nil {
		return nil, err
	}

	l := s.ownerLock(owner)
	l.Lock()
	entries, err := readIndex(dir)
	l.Unlock()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*fileDatasetStore.ListForOwner").Str("owner", owner).Msg("error reading index")
		return nil, err
	}

	recordings := make([]models.Recording, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		recordings = append(recordings, entries[i].recording(owner, dir))
	}
	return recordings, nil
}

// ListAll merges every owner's log, newest first with the id as tie-break.
// An owner whose log cannot be read is left out with a warning; only a
// failure to list the root aborts.
func (s *fileDatasetStore) ListAll(ctx context.Context) ([]models.Recording, error) {
	owners, err := s.files.owners()
	if err != nil {
		return nil, err
	}

	all := make([]models.Recording, 0)
	for _, owner := range owners {
		recordings, err := s.ListForOwner(ctx, owner)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "*fileDatasetStore.ListAll").Str("owner", owner).Msg("skipping owner with unreadable index")
			continue
		}
		all = append(all, recordings...)
	}

	slices.SortStableFunc(all, func(a, b models.Recording) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return all, nil
}

// ListOwners returns the owner directories under the root, including those
// created at registration that hold no recording yet.
func (s *fileDatasetStore) ListOwners(_ context.Context) ([]string, error) {
	return s.files.owners()
}

func (s *fileDatasetStore) GetRecording(ctx context.Context, owner, id string) (models.Recording, error) {
	recordings, err := s.ListForOwner(ctx, owner)
	if err != nil {
		return models.Recording{}, err
	}

	for _, rec := range recordings {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.Recording{}, ErrRecordingNotFound
}

func (s *fileDatasetStore) ReadAudio(_ context.Context, rec models.Recording) ([]byte, error) {
	return s.files.read(rec.Owner, rec.StoredFilename)
}

// DeleteAll removes the audio files and then every owner's log together with
// the owner directory when it is left empty.
func (s *fileDatasetStore) DeleteAll(ctx context.Context) (models.DeleteReport, error) {
	log := logger.FromContext(ctx)

	report := s.files.removeAll(ctx)

	owners, err := s.files.owners()
	if err != nil {
		return report, err
	}

	var errs []error
	for _, owner := range owners {
		dir := filepath.Join(s.files.root, owner)

		l := s.ownerLock(owner)
		l.Lock()
		err := os.Remove(filepath.Join(dir, metadataFileName))
		l.Unlock()

		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Err(err).Str("func", "*fileDatasetStore.DeleteAll").Str("owner", owner).Msg("error removing index")
			errs = append(errs, fmt.Errorf("%w: %w", ErrWritingIndex, err))
		}
	}

	s.files.removeEmptyNamespaces(ctx)

	return report, errors.Join(errs...)
}

func (s *fileDatasetStore) Close() error {
	return nil
}

func readIndex(dir string) ([]metadataEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []metadataEntry{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrReadingIndex, err)
	}

	entries := make([]metadataEntry, 0)
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingIndex, err)
	}
	return entries, nil
}

// writeIndex replaces dir/metadata.json atomically.
func writeIndex(dir string, entries []metadataEntry) (err error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingIndex, err)
	}

	tmp, err := os.CreateTemp(dir, metadataFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingIndex, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWritingIndex, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingIndex, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(dir, metadataFileName)); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingIndex, err)
	}
	return nil
}
