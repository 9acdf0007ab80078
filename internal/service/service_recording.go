package service

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/MKhiriev/yorlect/internal/audio"
	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

type recordingService struct {
	datasetStore store.DatasetStore
	ids          *utils.UUIDGenerator
	clock        *clock
	target       int

	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewRecordingService returns the RecordingService over datasetStore. It
// expects owners already normalized and inputs already validated; wrap it
// with NewRecordingValidationService for request-facing use.
func NewRecordingService(datasetStore store.DatasetStore, cfg config.App, m *metrics.Metrics, logger *logger.Logger) RecordingService {
	return &recordingService{
		datasetStore: datasetStore,
		ids:          utils.NewUUIDGenerator(),
		clock:        newClock(),
		target:       cfg.RecordingsTarget,
		metrics:      m,
		logger:       logger,
	}
}

// Ingest writes the audio file first and appends the index entry second.
// A failed write aborts before the index is touched; a failed append leaves
// the written file behind as an orphan.
func (s *recordingService) Ingest(ctx context.Context, owner string, data []byte, originalFilename string, metadata models.Metadata) (models.Recording, error) {
	log := logger.FromContext(ctx)

	id := s.ids.Generate()
	ext := audio.Extension(originalFilename)
	filename := id + ext

	path, err := s.datasetStore.SaveAudio(ctx, owner, filename, data)
	if err != nil {
		log.Err(err).Str("func", "*recordingService.Ingest").Str("owner", owner).Msg("error saving audio")
		return models.Recording{}, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	rec := models.Recording{
		ID:             id,
		Owner:          owner,
		StoredFilename: filename,
		StoragePath:    path,
		Metadata:       metadata,
		CreatedAt:      s.clock.Now(),
	}

	if audio.IsWAV(ext) {
		duration, err := audio.Duration(bytes.NewReader(data))
		if err != nil {
			log.Debug().Err(err).Str("id", id).Msg("duration is unknown")
		} else {
			rec.DurationSeconds = &duration
		}
	}

	if err = s.datasetStore.AppendRecording(ctx, rec); err != nil {
		log.Err(err).Str("func", "*recordingService.Ingest").Str("id", id).Str("path", path).Msg("audio stored but index entry failed")
		return models.Recording{}, fmt.Errorf("error indexing recording: %w", err)
	}

	s.metrics.RecordingsIngested.WithLabelValues(ext).Inc()
	s.metrics.AudioBytes.Add(float64(len(data)))
	log.Info().Str("id", id).Str("owner", owner).Int("bytes", len(data)).Msg("recording stored")

	return rec, nil
}

func (s *recordingService) ListForOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	return s.datasetStore.ListForOwner(ctx, owner)
}

func (s *recordingService) ListAll(ctx context.Context) ([]models.Recording, error) {
	return s.datasetStore.ListAll(ctx)
}

func (s *recordingService) ListOwners(ctx context.Context) ([]string, error) {
	return s.datasetStore.ListOwners(ctx)
}

func (s *recordingService) GetRecording(ctx context.Context, owner, id string) (models.Recording, error) {
	return s.datasetStore.GetRecording(ctx, owner, id)
}

func (s *recordingService) OpenAudio(ctx context.Context, rec models.Recording) ([]byte, error) {
	return s.datasetStore.ReadAudio(ctx, rec)
}

// Progress counts the owner's recordings against the configured target.
func (s *recordingService) Progress(ctx context.Context, owner string) (models.Progress, error) {
	recordings, err := s.datasetStore.ListForOwner(ctx, owner)
	if err != nil {
		return models.Progress{}, fmt.Errorf("error listing recordings: %w", err)
	}

	p := models.Progress{Owner: owner, Completed: len(recordings), Target: s.target}
	if s.target > 0 {
		p.Ratio = math.Min(float64(p.Completed)/float64(s.target), 1)
	}
	for _, rec := range recordings {
		if rec.DurationSeconds != nil {
			p.TotalSeconds += *rec.DurationSeconds
		}
	}

	return p, nil
}

func (s *recordingService) DeleteAll(ctx context.Context) (models.DeleteReport, error) {
	log := logger.FromContext(ctx)

	report, err := s.datasetStore.DeleteAll(ctx)
	if err != nil {
		log.Err(err).Str("func", "*recordingService.DeleteAll").Msg("error clearing index")
		return report, fmt.Errorf("error deleting recordings: %w", err)
	}

	s.metrics.BulkDeletes.Inc()
	log.Warn().
		Int("files_removed", report.FilesRemoved).
		Int("failures", len(report.Failures)).
		Msg("all recordings deleted")

	return report, nil
}
