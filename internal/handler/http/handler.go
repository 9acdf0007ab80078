package http

import (
	"time"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/service"
)

// defaultMaxUploadBytes bounds multipart uploads when the config leaves the
// limit unset.
const defaultMaxUploadBytes = 50 << 20

type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics

	maxUploadBytes int64
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, m *metrics.Metrics, logger *logger.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		metrics:        m,
		maxUploadBytes: maxUpload,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
