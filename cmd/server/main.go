package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/handler"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/server"
	"github.com/MKhiriev/yorlect/internal/service"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("yorlect-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Str("level", cfg.App.LogLevel).Msg("invalid log level")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	if cfg.HasInsecureAdminSecret() {
		log.Warn().Msg("admin secret is not set, the built-in default is in use: set APP_ADMIN_SECRET")
	}
	if cfg.LegacyAdminPass != "" {
		log.Warn().Msg("YORLECT_ADMIN_PASS is deprecated, use APP_ADMIN_SECRET")
	}

	log.Info().
		Str("identity_mode", cfg.App.IdentityMode).
		Str("backend", cfg.Storage.Backend).
		Str("data_dir", cfg.Storage.Files.DataDir).
		Bool("publish", cfg.Export.PublishEnabled()).
		Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	m := metrics.New()

	services, err := service.NewServices(ctx, storages, cfg, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if err = services.AuthService.BootstrapAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("error creating admin account")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
