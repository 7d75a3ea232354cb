package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/wildlife-tools/animaldetect/internal/config"
	"github.com/wildlife-tools/animaldetect/internal/report"
	"github.com/wildlife-tools/animaldetect/internal/upload"
)

func newExportCmd() *cobra.Command {
	var (
		server string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the server's detection history",
		Long: `Fetches every stored detection result from /api/results and writes it as a
parquet table (one row per detection) or a YAML report with a summary.`,
		Example: `  # Export to parquet for analysis
  animaldetect export --format parquet --output detections.parquet

  # Export a YAML report from a remote server
  animaldetect export --server http://detector:5000 --format yaml --output report.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("server") {
				server = config.Load().ServerURL
			}
			if format != "parquet" && format != "yaml" {
				return fmt.Errorf("invalid --format %q (expected parquet or yaml)", format)
			}
			if output == "" {
				output = "detections." + format
			}

			client := upload.NewClient(server, 30*time.Second)
			records, err := client.Results(cmd.Context())
			if err != nil {
				return err
			}

			switch format {
			case "parquet":
				err = report.WriteParquet(output, report.Rows(records))
			case "yaml":
				err = report.SaveYAML(output, report.NewDocument(client.BaseURL, records, time.Now()))
			}
			if err != nil {
				return err
			}

			slog.Info("Export written", "path", output, "format", format, "results", len(records))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d results to %s\n", len(records), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:5000", "Detection server URL (defaults to DETECT_SERVER_URL)")
	cmd.Flags().StringVarP(&format, "format", "f", "parquet", "Output format (parquet or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (defaults to detections.<format>)")

	return cmd
}
