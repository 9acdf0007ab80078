package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/store"
)

type Services struct {
	AuthService      AuthService
	RecordingService RecordingService
	ExportService    ExportService
	AppInfoService   AppInfoService
}

// NewServices wires the services over storages. The S3 client is only built
// when a bucket is configured.
func NewServices(ctx context.Context, storages *store.Storages, cfg *config.StructuredConfig, m *metrics.Metrics, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	var uploader ObjectUploader
	if cfg.Export.PublishEnabled() {
		if uploader, err = NewS3Uploader(ctx, cfg.Export); err != nil {
			return nil, fmt.Errorf("error creating s3 client: %w", err)
		}
	}

	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, storages.DatasetStore, cfg.App, logger),
		RecordingService: NewRecordingValidationService().Wrap(NewRecordingService(storages.DatasetStore, cfg.App, m, logger)),
		ExportService:    NewExportService(storages.DatasetStore, uploader, cfg, m, logger),
		AppInfoService:   appInfoService,
	}, nil
}
