package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/wildlife-tools/animaldetect/internal/config"
	"github.com/wildlife-tools/animaldetect/internal/console"
	"github.com/wildlife-tools/animaldetect/internal/report"
	"github.com/wildlife-tools/animaldetect/internal/upload"
)

func newUploadCmd() *cobra.Command {
	var (
		server     string
		mediaType  string
		reportPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Submit images or videos for detection",
		Long: `Uploads each file to the detection server's /detect endpoint and prints
the animals found, their confidence and the annotated result URL.

Files whose type does not match --type are rejected before upload.`,
		Example: `  # Detect animals in two images
  animaldetect upload trap1.jpg trap2.jpg

  # Send a video to a remote server and save a YAML report
  animaldetect upload --type video --server http://detector:5000 clip.mp4 --report out.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("server") {
				server = config.Load().ServerURL
			}

			kind := upload.Kind(mediaType)
			if kind != upload.KindImage && kind != upload.KindVideo {
				return fmt.Errorf("invalid --type %q (expected image or video)", mediaType)
			}

			client := upload.NewClient(server, timeout)
			view := console.NewView(cmd.OutOrStdout(), client.ResolveURL)
			recorder := console.NewRecorder(client)
			controller := upload.New(view, recorder)

			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					controller.Abort()
					return err
				}
				view.Separator(path)

				form := console.NewFileForm(path)
				controller.BindForm(kind, form)
				form.Submit(cmd.Context())
			}

			records := recorder.Records()
			if reportPath != "" {
				doc := report.NewDocument(client.BaseURL, records, time.Now())
				if err := report.SaveYAML(reportPath, doc); err != nil {
					return err
				}
				slog.Info("Report saved", "path", reportPath, "results", len(records))
			}

			if failed := len(args) - len(records); failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:5000", "Detection server URL (defaults to DETECT_SERVER_URL)")
	cmd.Flags().StringVarP(&mediaType, "type", "t", "image", "Media type of the files (image or video)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a YAML report of the results to this path")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Per-file request timeout")

	return cmd
}
