package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/yorlect/internal/adapter"
	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/tui"
	"github.com/MKhiriev/yorlect/models"
)

type App struct {
	cfg       config.Client
	buildInfo models.AppBuildInfo

	adapter adapter.ServerAdapter
	session sessionFile

	logger *logger.Logger
}

func NewApp(cfg *config.Client, buildInfo models.AppBuildInfo, logger *logger.Logger) *App {
	return &App{
		cfg:       *cfg,
		buildInfo: buildInfo,
		logger:    logger,
	}
}

// Run executes the command line in os.Args. SIGINT and SIGTERM cancel the
// request in flight.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := a.command()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), tui.Error(err))
		return err
	}
	return nil
}

// command builds the cobra tree. Flags override the environment settings.
func (a *App) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "yorlect",
		Short:         "Collect speech recordings for the yorlect dataset",
		Version:       a.buildInfo.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.ServerAddress, "server", a.cfg.ServerAddress, "API base URL")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", a.cfg.RequestTimeout, "timeout of a single API call")
	flags.StringVar(&a.cfg.SessionFile, "session-file", a.cfg.SessionFile, "where the session token is kept")

	root.AddCommand(
		a.versionCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.uploadCommand(),
		a.listCommand(),
		a.progressCommand(),
		a.audioCommand(),
		a.exportCommand(false),
		a.adminCommand(),
	)

	return root
}

// connect builds the adapter from the final flag values and restores the
// stored session, if any.
func (a *App) connect() error {
	a.session = sessionFile{path: a.cfg.SessionFile}

	serverAdapter, err := adapter.NewHTTPServerAdapter(a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.adapter = serverAdapter

	if token, err := a.session.load(); err == nil {
		a.adapter.SetToken(token)
	}
	return nil
}

// requireSession fails early for commands that need a token.
func (a *App) requireSession() error {
	if a.adapter.Token() == "" {
		return ErrNoSession
	}
	return nil
}

func (a *App) persistSession(cmd *cobra.Command, identity models.Identity, copyToken bool) error {
	token := a.adapter.Token()
	if err := a.session.save(token); err != nil {
		return err
	}

	who := identity.Owner
	if identity.IsAdmin {
		who += " (admin)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Success("logged in as "+who))

	if copyToken {
		if err := writeClipboard(token); err != nil {
			a.logger.Warn().Err(err).Msg("token was not copied to the clipboard")
			fmt.Fprintln(cmd.ErrOrStderr(), tui.Warning("could not copy the token: "+err.Error()))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.Dim("token copied to the clipboard"))
	}
	return nil
}

// writeOutput writes data to path, or to the command output for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("saved %s (%d bytes)", path, len(data))))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

