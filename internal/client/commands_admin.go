package client

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/yorlect/internal/tui"
)

func (a *App) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Dataset-wide operations for administrators",
	}

	cmd.AddCommand(
		a.adminLoginCommand(),
		a.adminRecordingsCommand(),
		a.adminOwnersCommand(),
		a.adminUsersCommand(),
		a.exportCommand(true),
		a.adminPublishCommand(),
		a.adminDeleteCommand(),
	)
	return cmd
}

func (a *App) adminRecordingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recordings",
		Short: "List every recording, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			recordings, err := a.adapter.AdminRecordings(cmd.Context())
			if err != nil {
				return err
			}
			return printRecordings(cmd, recordings, true)
		},
	}
}

func (a *App) adminOwnersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "List owners with a recordings folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			owners, err := a.adapter.AdminOwners(cmd.Context())
			if err != nil {
				return err
			}
			for _, owner := range owners {
				fmt.Fprintln(cmd.OutOrStdout(), owner)
			}
			return nil
		},
	}
}

func (a *App) adminUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			users, err := a.adapter.AdminUsers(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tADMIN\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%t\t%s\n", u.Username, u.IsAdmin, formatTime(u.CreatedAt))
			}
			return tw.Flush()
		},
	}
}

func (a *App) adminPublishCommand() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the audio zip to the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			result, err := a.adapter.AdminPublish(cmd.Context(), owner)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("s3://%s/%s (%d files, %d bytes)", result.Bucket, result.Key, result.Entries, result.Size)))
			if len(result.Skipped) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.Warning(fmt.Sprintf("%d file(s) were left out", len(result.Skipped))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "restrict the bundle to one owner")
	return cmd
}

func (a *App) adminDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every recording of every owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			if !yes {
				confirmed, err := tui.Confirm("Delete every recording of every owner? This cannot be undone.", cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), tui.Dim("nothing deleted"))
					return nil
				}
			}

			report, err := a.adapter.AdminDeleteAll(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("%d file(s) removed", report.FilesRemoved)))
			for _, failure := range report.Failures {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.Warning(failure.Path+": "+failure.Reason))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
