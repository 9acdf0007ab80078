package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/yorlect/internal/tui"
	"github.com/MKhiriev/yorlect/models"
)

func (a *App) uploadCommand() *cobra.Command {
	var (
		name, gender, locale, notes, prompt string
		age                                 int
	)

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload one or more recordings",
		Long: "Upload audio files. The metadata flags apply to every file given;\n" +
			"unset flags are left empty.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var metadata models.Metadata
			flags := cmd.Flags()
			setIfChanged := func(flag string, value string, dst **string) {
				if flags.Changed(flag) {
					v := value
					*dst = &v
				}
			}
			setIfChanged("name", name, &metadata.Name)
			setIfChanged("gender", gender, &metadata.Gender)
			setIfChanged("locale", locale, &metadata.Locale)
			setIfChanged("notes", notes, &metadata.Notes)
			setIfChanged("prompt", prompt, &metadata.Prompt)
			if flags.Changed("age") {
				metadata.Age = &age
			}

			for _, path := range args {
				if err := a.uploadFile(cmd, path, metadata); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "speaker name or ID")
	cmd.Flags().IntVar(&age, "age", 0, "speaker age in years")
	cmd.Flags().StringVar(&gender, "gender", "", "speaker gender")
	cmd.Flags().StringVar(&locale, "locale", "", "locale or dialect, e.g. Oyo")
	cmd.Flags().StringVar(&notes, "notes", "", "recording conditions, microphone, context")
	cmd.Flags().StringVar(&prompt, "prompt", "", "the text that was read")

	return cmd
}

func (a *App) uploadFile(cmd *cobra.Command, path string, metadata models.Metadata) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := a.adapter.Upload(cmd.Context(), filepath.Base(path), f, metadata)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	a.logger.Debug().Str("id", rec.ID).Str("file", path).Msg("recording uploaded")
	fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("%s stored as %s", filepath.Base(path), rec.StoredFilename)))
	return nil
}

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your recordings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			recordings, err := a.adapter.ListRecordings(cmd.Context())
			if err != nil {
				return err
			}
			return printRecordings(cmd, recordings, false)
		},
	}
}

func (a *App) progressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how far you are towards the recording target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			progress, err := a.adapter.Progress(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.Title(progress.Owner))
			fmt.Fprintln(cmd.OutOrStdout(), tui.ProgressBar(progress))
			return nil
		},
	}
}

func (a *App) audioCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "audio ID",
		Short: "Download the audio of one of your recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			data, err := a.adapter.DownloadAudio(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + ".audio"
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)
	return cmd
}

// exportCommand serves both `export` and `admin export`.
func (a *App) exportCommand(admin bool) *cobra.Command {
	var owner, output string

	exportRun := func(kind string) func(cmd *cobra.Command, _ []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			if output == "" {
				prefix := "recordings"
				if admin {
					prefix = models.ExportScope{Owner: owner}.String()
				}
				output = prefix + "-" + kind
			}

			switch kind {
			case "metadata.csv":
				data, err := a.adapter.ExportCSV(cmd.Context(), admin, owner)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, data)
			default:
				data, skipped, err := a.adapter.ExportZip(cmd.Context(), admin, owner)
				if err != nil {
					return err
				}
				if skipped > 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), tui.Warning(fmt.Sprintf("%d file(s) could not be read and were left out", skipped)))
				}
				return writeOutput(cmd, output, data)
			}
		}
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the metadata CSV or the audio zip",
	}

	csvCmd := &cobra.Command{Use: "csv", Short: "Metadata as CSV", Args: cobra.NoArgs, RunE: exportRun("metadata.csv")}
	zipCmd := &cobra.Command{Use: "zip", Short: "Audio files as zip", Args: cobra.NoArgs, RunE: exportRun("audio.zip")}

	for _, sub := range []*cobra.Command{csvCmd, zipCmd} {
		sub.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)
		if admin {
			sub.Flags().StringVar(&owner, "owner", "", "restrict the export to one owner")
		}
		cmd.AddCommand(sub)
	}

	return cmd
}

// printRecordings writes a table of recordings; withOwner adds the owner
// column for dataset-wide listings.
func printRecordings(cmd *cobra.Command, recordings []models.Recording, withOwner bool) error {
	out := cmd.OutOrStdout()
	if len(recordings) == 0 {
		fmt.Fprintln(out, tui.Dim("no recordings yet"))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if withOwner {
		fmt.Fprint(tw, "OWNER\t")
	}
	fmt.Fprintln(tw, "ID\tFILE\tSECONDS\tCREATED\tPROMPT")

	for _, rec := range recordings {
		if withOwner {
			fmt.Fprintf(tw, "%s\t", rec.Owner)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.StoredFilename, seconds(rec.DurationSeconds), formatTime(rec.CreatedAt), deref(rec.Prompt))
	}
	return tw.Flush()
}

func seconds(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
