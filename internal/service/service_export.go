package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zip"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/models"
)

// CSV layouts. The full layout is used in password mode, the prompt layout in
// username mode where speakers read prompts and leave no other metadata.
var (
	fullCSVHeader   = []string{"id", "username", "filename", "filepath", "name", "age", "gender", "locale", "notes", "duration_seconds", "timestamp"}
	promptCSVHeader = []string{"filename", "timestamp", "prompt"}
)

// publishTimeLayout is the timestamp part of published object keys.
const publishTimeLayout = "20060102T150405Z"

type exportService struct {
	datasetStore store.DatasetStore

	// uploader is nil when publishing is disabled.
	uploader ObjectUploader
	bucket   string
	prefix   string

	promptLayout bool
	now          func() time.Time

	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewExportService(datasetStore store.DatasetStore, uploader ObjectUploader, cfg *config.StructuredConfig, m *metrics.Metrics, logger *logger.Logger) ExportService {
	return &exportService{
		datasetStore: datasetStore,
		uploader:     uploader,
		bucket:       cfg.Export.S3Bucket,
		prefix:       cfg.Export.S3Prefix,
		promptLayout: cfg.App.IdentityMode == config.IdentityModeUsername,
		now:          time.Now,
		metrics:      m,
		logger:       logger,
	}
}

func (e *exportService) recordings(ctx context.Context, scope models.ExportScope) ([]models.Recording, error) {
	if scope.All() {
		return e.datasetStore.ListAll(ctx)
	}
	owner, err := normalizeOwner(scope.Owner)
	if err != nil {
		return nil, err
	}
	return e.datasetStore.ListForOwner(ctx, owner)
}

// ExportMetadataCSV renders the index of scope as UTF-8 CSV with a header
// row. Rows follow listing order; absent values are empty cells.
func (e *exportService) ExportMetadataCSV(ctx context.Context, scope models.ExportScope) ([]byte, error) {
	log := logger.FromContext(ctx)

	recordings, err := e.recordings(ctx, scope)
	if err != nil {
		log.Err(err).Str("func", "*exportService.ExportMetadataCSV").Str("scope", scope.String()).Msg("error listing recordings")
		return nil, fmt.Errorf("error listing recordings: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header, row := fullCSVHeader, fullCSVRow
	if e.promptLayout {
		header, row = promptCSVHeader, promptCSVRow
	}

	if err = w.Write(header); err != nil {
		return nil, fmt.Errorf("error writing csv: %w", err)
	}
	for _, rec := range recordings {
		if err = w.Write(row(rec)); err != nil {
			return nil, fmt.Errorf("error writing csv: %w", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return nil, fmt.Errorf("error writing csv: %w", err)
	}

	e.metrics.ExportsBuilt.WithLabelValues("csv").Inc()
	return buf.Bytes(), nil
}

// ExportZip packs the audio files of scope into a DEFLATE archive. Files
// that cannot be read are skipped and listed in the result.
func (e *exportService) ExportZip(ctx context.Context, scope models.ExportScope) (models.ZipExport, error) {
	log := logger.FromContext(ctx)

	recordings, err := e.recordings(ctx, scope)
	if err != nil {
		log.Err(err).Str("func", "*exportService.ExportZip").Str("scope", scope.String()).Msg("error listing recordings")
		return models.ZipExport{}, fmt.Errorf("error listing recordings: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	result := models.ZipExport{}

	for _, rec := range recordings {
		name := rec.StoredFilename
		if scope.All() {
			name = rec.Owner + "/" + rec.StoredFilename
		}

		data, err := e.datasetStore.ReadAudio(ctx, rec)
		if err != nil {
			log.Warn().Err(err).Str("entry", name).Msg("audio file skipped in export")
			result.Skipped = append(result.Skipped, models.SkippedEntry{Path: name, Reason: err.Error()})
			continue
		}

		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: rec.CreatedAt,
		})
		if err != nil {
			return models.ZipExport{}, fmt.Errorf("error adding zip entry %q: %w", name, err)
		}
		if _, err = f.Write(data); err != nil {
			return models.ZipExport{}, fmt.Errorf("error writing zip entry %q: %w", name, err)
		}
		result.Entries++
	}

	if err = zw.Close(); err != nil {
		return models.ZipExport{}, fmt.Errorf("error finishing zip: %w", err)
	}

	result.Data = buf.Bytes()
	e.metrics.ExportsBuilt.WithLabelValues("zip").Inc()
	e.metrics.ExportSkipped.Add(float64(len(result.Skipped)))

	return result, nil
}

// PublishZip uploads the zip of scope to {prefix}/{scope}-{timestamp}.zip.
func (e *exportService) PublishZip(ctx context.Context, scope models.ExportScope) (models.PublishResult, error) {
	log := logger.FromContext(ctx)

	if e.uploader == nil || e.bucket == "" {
		return models.PublishResult{}, ErrPublishDisabled
	}

	bundle, err := e.ExportZip(ctx, scope)
	if err != nil {
		return models.PublishResult{}, err
	}

	key := path.Join(e.prefix, fmt.Sprintf("%s-%s.zip", scope.String(), e.now().UTC().Format(publishTimeLayout)))

	_, err = e.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(bundle.Data),
		ContentLength: aws.Int64(int64(len(bundle.Data))),
		ContentType:   aws.String("application/zip"),
	})
	if err != nil {
		log.Err(err).Str("func", "*exportService.PublishZip").Str("bucket", e.bucket).Str("key", key).Msg("error uploading export")
		return models.PublishResult{}, fmt.Errorf("error uploading export: %w", err)
	}

	e.metrics.ExportsBuilt.WithLabelValues("publish").Inc()
	log.Info().Str("bucket", e.bucket).Str("key", key).Int("entries", bundle.Entries).Msg("export published")

	return models.PublishResult{
		Bucket:  e.bucket,
		Key:     key,
		Size:    len(bundle.Data),
		Entries: bundle.Entries,
		Skipped: bundle.Skipped,
	}, nil
}

func fullCSVRow(rec models.Recording) []string {
	return []string{
		rec.ID,
		rec.Owner,
		rec.StoredFilename,
		rec.StoragePath,
		deref(rec.Name),
		formatInt(rec.Age),
		deref(rec.Gender),
		deref(rec.Locale),
		deref(rec.Notes),
		formatFloat(rec.DurationSeconds),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func promptCSVRow(rec models.Recording) []string {
	return []string{
		rec.StoredFilename,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		deref(rec.Prompt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
