package handler

import (
	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/handler/http"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, m *metrics.Metrics, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, cfg, m, logger),
	}, nil
}
