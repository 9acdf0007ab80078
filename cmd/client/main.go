package main

import (
	"os"

	"github.com/MKhiriev/yorlect/internal/client"
	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewConsoleLogger("yorlect-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
	}

	app := client.NewApp(cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err = app.Run(); err != nil {
		os.Exit(1)
	}
}
