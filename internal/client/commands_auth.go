package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/yorlect/internal/tui"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, a.buildInfo.String())

			serverVersion, err := a.adapter.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("server version: %w", err)
			}
			fmt.Fprintf(out, "Server version: %s\n", serverVersion)
			return nil
		},
	}
}

func (a *App) registerCommand() *cobra.Command {
	var (
		credentials models.Credentials
		copyToken   bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: "Create an account and log in. When the server runs without passwords,\n" +
			"only the username is needed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("confirm") {
				credentials.ConfirmPassword = credentials.Password
			}

			identity, err := a.adapter.Register(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			return a.persistSession(cmd, identity, copyToken)
		},
	}

	cmd.Flags().StringVarP(&credentials.Username, "username", "u", "", "username, also the name of your recordings folder")
	cmd.Flags().StringVarP(&credentials.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&credentials.ConfirmPassword, "confirm", "", "password confirmation (defaults to --password)")
	cmd.Flags().BoolVar(&copyToken, "copy", false, "copy the session token to the clipboard")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var (
		credentials models.Credentials
		copyToken   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a speaker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := a.adapter.Login(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			return a.persistSession(cmd, identity, copyToken)
		},
	}

	cmd.Flags().StringVarP(&credentials.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&credentials.Password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&copyToken, "copy", false, "copy the session token to the clipboard")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func (a *App) adminLoginCommand() *cobra.Command {
	var (
		secret    string
		copyToken bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the admin secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := a.adapter.AdminLogin(cmd.Context(), secret)
			if err != nil {
				return err
			}
			return a.persistSession(cmd, identity, copyToken)
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", "", "admin secret")
	cmd.Flags().BoolVar(&copyToken, "copy", false, "copy the session token to the clipboard")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.Success("logged out"))
			return nil
		},
	}
}

// whoamiCommand decodes the stored token locally; it does not call the
// server, so an expired token still shows who it belonged to.
func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			identity, err := utils.ParseIdentityFromJWT(a.adapter.Token())
			if err != nil {
				return fmt.Errorf("stored session is unreadable: %w", err)
			}

			role := "speaker"
			if identity.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", identity.Owner, tui.Dim("("+role+")"))
			return nil
		},
	}
}
