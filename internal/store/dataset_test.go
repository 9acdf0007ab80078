// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestSQLite(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.DB{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

type backendFactory func(t *testing.T, dataDir string) DatasetStore

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		"sql": func(t *testing.T, dataDir string) DatasetStore {
			s, err := NewSQLDatasetStore(newTestSQLite(t), dataDir, logger.Nop())
			require.NoError(t, err)
			return s
		},
		"files": func(t *testing.T, dataDir string) DatasetStore {
			s, err := NewFileDatasetStore(dataDir, logger.Nop())
			require.NoError(t, err)
			return s
		},
	}
}

func strPtr(s string) *string { return &s }

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// store saves the audio and appends the index entry the way ingestion does.
func storeRecording(t *testing.T, s DatasetStore, owner, id string, at time.Time) models.Recording {
	t.Helper()
	ctx := context.Background()

	filename := id + ".wav"
	path, err := s.SaveAudio(ctx, owner, filename, []byte("audio-"+id))
	require.NoError(t, err)

	rec := models.Recording{
		ID:             id,
		Owner:          owner,
		StoredFilename: filename,
		StoragePath:    path,
		Metadata:       models.Metadata{Name: strPtr("Speaker " + id), Prompt: strPtr("prompt " + id)},
		CreatedAt:      at,
	}
	require.NoError(t, s.AppendRecording(ctx, rec))
	return rec
}

func ids(recordings []models.Recording) []string {
	out := make([]string, 0, len(recordings))
	for _, r := range recordings {
		out = append(out, r.ID)
	}
	return out
}

// ── both backends ─────────────────────────────────────────────────────────────

func TestDatasetStore_ListOrdering(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, t.TempDir())
			ctx := context.Background()

			storeRecording(t, s, "joy", "01", baseTime)
			storeRecording(t, s, "ada", "02", baseTime.Add(time.Second))
			storeRecording(t, s, "joy", "03", baseTime.Add(2*time.Second))
			storeRecording(t, s, "joy", "04", baseTime.Add(2*time.Second))

			mine, err := s.ListForOwner(ctx, "joy")
			require.NoError(t, err)
			assert.Equal(t, []string{"04", "03", "01"}, ids(mine))

			all, err := s.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"04", "03", "02", "01"}, ids(all))

			owners, err := s.ListOwners(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"ada", "joy"}, owners)

			none, err := s.ListForOwner(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestDatasetStore_RoundTrip(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)
			ctx := context.Background()

			duration := 1.5
			age := 31
			path, err := s.SaveAudio(ctx, "joy", "0a.wav", []byte("RIFF"))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dataDir, "joy", "0a.wav"), path)

			rec := models.Recording{
				ID:              "0a",
				Owner:           "joy",
				StoredFilename:  "0a.wav",
				StoragePath:     path,
				Metadata:        models.Metadata{Name: strPtr("Joy"), Age: &age, Locale: strPtr("Oyo")},
				DurationSeconds: &duration,
				CreatedAt:       baseTime.In(time.FixedZone("WAT", 3600)),
			}
			require.NoError(t, s.AppendRecording(ctx, rec))

			got, err := s.GetRecording(ctx, "joy", "0a")
			require.NoError(t, err)
			assert.Equal(t, "0a.wav", got.StoredFilename)
			assert.Equal(t, path, got.StoragePath)
			assert.Equal(t, "Joy", *got.Name)
			assert.Equal(t, 31, *got.Age)
			assert.Nil(t, got.Gender)
			assert.Nil(t, got.Notes)
			require.NotNil(t, got.DurationSeconds)
			assert.InDelta(t, 1.5, *got.DurationSeconds, 1e-9)
			assert.True(t, baseTime.Equal(got.CreatedAt))
			assert.Equal(t, time.UTC, got.CreatedAt.Location())

			data, err := s.ReadAudio(ctx, got)
			require.NoError(t, err)
			assert.Equal(t, []byte("RIFF"), data)

			_, err = s.GetRecording(ctx, "joy", "missing")
			assert.ErrorIs(t, err, ErrRecordingNotFound)
			_, err = s.GetRecording(ctx, "ada", "0a")
			assert.ErrorIs(t, err, ErrRecordingNotFound)
		})
	}
}

func TestDatasetStore_InvalidOwner(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)
			ctx := context.Background()

			_, err := s.SaveAudio(ctx, "../escape", "x.wav", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidOwner)
			assert.ErrorIs(t, s.EnsureNamespace(ctx, "Upper"), ErrInvalidOwner)

			_, err = os.Stat(filepath.Join(filepath.Dir(dataDir), "escape"))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestDatasetStore_SaveAudioDoesNotOverwrite(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)
			ctx := context.Background()

			_, err := s.SaveAudio(ctx, "joy", "a.wav", []byte("first"))
			require.NoError(t, err)

			_, err = s.SaveAudio(ctx, "joy", "a.wav", []byte("second"))
			assert.ErrorIs(t, err, ErrWritingAudio)

			data, err := os.ReadFile(filepath.Join(dataDir, "joy", "a.wav"))
			require.NoError(t, err)
			assert.Equal(t, "first", string(data))
		})
	}
}

func TestDatasetStore_EnsureNamespaceIdempotent(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)

			require.NoError(t, s.EnsureNamespace(context.Background(), "joy"))
			require.NoError(t, s.EnsureNamespace(context.Background(), "joy"))

			info, err := os.Stat(filepath.Join(dataDir, "joy"))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestDatasetStore_DeleteAll(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)
			ctx := context.Background()

			storeRecording(t, s, "joy", "01", baseTime)
			storeRecording(t, s, "joy", "02", baseTime.Add(time.Second))
			storeRecording(t, s, "ada", "03", baseTime.Add(2*time.Second))

			report, err := s.DeleteAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, report.FilesRemoved)
			assert.Empty(t, report.Failures)

			all, err := s.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			entries, err := os.ReadDir(dataDir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			report, err = s.DeleteAll(ctx)
			require.NoError(t, err)
			assert.Zero(t, report.FilesRemoved)

			// the store keeps working after a wipe
			storeRecording(t, s, "joy", "04", baseTime.Add(3*time.Second))
			mine, err := s.ListForOwner(ctx, "joy")
			require.NoError(t, err)
			assert.Equal(t, []string{"04"}, ids(mine))
		})
	}
}

func TestDatasetStore_ConcurrentAppendsSameOwner(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, t.TempDir())
			ctx := context.Background()

			const n = 20
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					id := fmt.Sprintf("%02d", i)
					errs <- s.AppendRecording(ctx, models.Recording{
						ID:             id,
						Owner:          "joy",
						StoredFilename: id + ".wav",
						CreatedAt:      baseTime.Add(time.Duration(i) * time.Millisecond),
					})
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			mine, err := s.ListForOwner(ctx, "joy")
			require.NoError(t, err)
			assert.Len(t, mine, n)
		})
	}
}

func TestDatasetStore_ListAllSkipsUnreadableOwnerIndex(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			s := newStore(t, dataDir)
			ctx := context.Background()

			storeRecording(t, s, "joy", "01", baseTime)
			require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "ada"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ada", metadataFileName),
				[]byte(`[{"filename":"x.wav","timestamp":"yesterday"}]`), 0o644))

			all, err := s.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"01"}, ids(all))

			mine, err := s.ListForOwner(ctx, "joy")
			require.NoError(t, err)
			assert.Equal(t, []string{"01"}, ids(mine))
		})
	}
}

// ── filesystem backend ────────────────────────────────────────────────────────

func TestFileDatasetStore_IndexLayout(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewFileDatasetStore(dataDir, logger.Nop())
	require.NoError(t, err)

	storeRecording(t, s, "joy", "01", baseTime)

	raw, err := os.ReadFile(filepath.Join(dataDir, "joy", metadataFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id": "01"`)
	assert.Contains(t, string(raw), `"filename": "01.wav"`)
	assert.Contains(t, string(raw), fmt.Sprintf(`"timestamp": %d`, baseTime.Unix()))
	assert.Contains(t, string(raw), `"iso": "2026-03-01T12:00:00Z"`)
	assert.Contains(t, string(raw), `"duration_seconds": null`)

	leftovers, err := filepath.Glob(filepath.Join(dataDir, "joy", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileDatasetStore_CorruptIndex(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewFileDatasetStore(dataDir, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "joy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "joy", metadataFileName), []byte("{not json"), 0o644))

	_, err = s.ListForOwner(context.Background(), "joy")
	assert.ErrorIs(t, err, ErrReadingIndex)

	err = s.AppendRecording(context.Background(), models.Recording{ID: "01", Owner: "joy", CreatedAt: baseTime})
	assert.ErrorIs(t, err, ErrReadingIndex)
}

func TestFileDatasetStore_EpochSecondsIndex(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewFileDatasetStore(dataDir, logger.Nop())
	require.NoError(t, err)

	doc := `[
  {"filename": "abc.wav", "timestamp": 1700000000.5, "prompt": "first"},
  {"filename": "def.webm", "timestamp": 1700000001, "iso": "2023-11-14T22:13:21.250000", "prompt": null}
]`
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "joy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "joy", metadataFileName), []byte(doc), 0o644))

	recs, err := s.ListForOwner(context.Background(), "joy")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "def", recs[0].ID)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 21, 250_000_000, time.UTC), recs[0].CreatedAt)
	assert.Nil(t, recs[0].Prompt)

	assert.Equal(t, "abc", recs[1].ID)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 500_000_000, time.UTC), recs[1].CreatedAt)
	require.NotNil(t, recs[1].Prompt)
	assert.Equal(t, "first", *recs[1].Prompt)
}

func TestFileDatasetStore_TimestampRoundTripKeepsMicroseconds(t *testing.T) {
	s, err := NewFileDatasetStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	at := baseTime.Add(1234567 * time.Microsecond)
	storeRecording(t, s, "joy", "01", at)

	recs, err := s.ListForOwner(context.Background(), "joy")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, at.Equal(recs[0].CreatedAt))
}

func TestFileDatasetStore_OwnersIncludeEmptyNamespaces(t *testing.T) {
	s, err := NewFileDatasetStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.EnsureNamespace(ctx, "joy"))

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"joy"}, owners)
}

// ── relational backend (sqlmock) ──────────────────────────────────────────────

func newMockSQLDatasetStore(t *testing.T) (DatasetStore, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s, err := NewSQLDatasetStore(newDB(conn, config.DriverPostgres, logger.Nop()), t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s, mock
}

func TestNewSQLDatasetStore_NilDB(t *testing.T) {
	_, err := NewSQLDatasetStore(nil, t.TempDir(), logger.Nop())
	assert.ErrorIs(t, err, ErrDatabaseRequired)
}

func TestSQLDatasetStore_AppendError(t *testing.T) {
	s, mock := newMockSQLDatasetStore(t)

	mock.ExpectExec("INSERT INTO recordings").WillReturnError(errors.New("boom"))

	err := s.AppendRecording(context.Background(), models.Recording{ID: "01", Owner: "joy", CreatedAt: baseTime})
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDatasetStore_ListForOwnerQuery(t *testing.T) {
	s, mock := newMockSQLDatasetStore(t)

	rows := sqlmock.NewRows(recordingColumns).
		AddRow("02", "joy", "02.wav", "/d/joy/02.wav", nil, nil, nil, nil, nil, "hello", 2.5, baseTime.Add(time.Second)).
		AddRow("01", "joy", "01.wav", "/d/joy/01.wav", "Joy", 20, nil, nil, nil, nil, nil, baseTime)
	mock.ExpectQuery("SELECT (.+) FROM recordings WHERE username = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs("joy").
		WillReturnRows(rows)

	got, err := s.ListForOwner(context.Background(), "joy")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", *got[0].Prompt)
	assert.Nil(t, got[0].Name)
	assert.Equal(t, 20, *got[1].Age)
	assert.Nil(t, got[1].DurationSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDatasetStore_GetRecordingMalformedID(t *testing.T) {
	s, mock := newMockSQLDatasetStore(t)

	mock.ExpectQuery("SELECT (.+) FROM recordings").WillReturnError(pgError(pgerrcode.InvalidTextRepresentation))
	mock.ExpectQuery("SELECT (.+) FROM recordings").WillReturnError(errors.New("boom"))

	_, err := s.GetRecording(context.Background(), "joy", "not-a-uuid")
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	_, err = s.GetRecording(context.Background(), "joy", "01")
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrRecordingNotFound)
}

func TestSQLDatasetStore_ListError(t *testing.T) {
	s, mock := newMockSQLDatasetStore(t)

	mock.ExpectQuery("SELECT (.+) FROM recordings").WillReturnError(errors.New("boom"))
	mock.ExpectQuery("SELECT DISTINCT username FROM recordings").WillReturnError(errors.New("boom"))

	_, err := s.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrScanningRows)

	_, err = s.ListOwners(context.Background())
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestSQLDatasetStore_DeleteAllIndexError(t *testing.T) {
	s, mock := newMockSQLDatasetStore(t)

	mock.ExpectExec("DELETE FROM recordings").WillReturnError(errors.New("boom"))

	_, err := s.DeleteAll(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
