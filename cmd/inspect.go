package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wildlife-tools/animaldetect/internal/report"
)

func newInspectCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <file.parquet>",
		Short: "Summarize a parquet export",
		Long: `Reads a parquet file written by "animaldetect export" and prints the
detection counts per category and class followed by the first rows.`,
		Example: `  # Summary plus the first 10 rows
  animaldetect inspect detections.parquet

  # Summary only
  animaldetect inspect detections.parquet --limit 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.LoadParquet(args[0])
			if err != nil {
				return err
			}
			printInspection(cmd.OutOrStdout(), rows, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rows to print (0 for none)")

	return cmd
}

func printInspection(w io.Writer, rows []report.Row, limit int) {
	results := make(map[string]bool)
	byCategory := make(map[string]int)
	byClass := make(map[string]int)
	detections := 0
	for _, row := range rows {
		results[row.ResultID] = true
		if row.Class == "" {
			continue
		}
		detections++
		byClass[row.Class]++
		if row.Category != "" {
			byCategory[row.Category]++
		}
	}

	fmt.Fprintf(w, "Results:    %d\n", len(results))
	fmt.Fprintf(w, "Detections: %d\n", detections)
	printCounts(w, "Categories", byCategory)
	printCounts(w, "Classes", byClass)

	if limit <= 0 || len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRows:")
	for i, row := range rows {
		if i >= limit {
			fmt.Fprintf(w, "  ... %d more\n", len(rows)-limit)
			break
		}
		class := row.Class
		if class == "" {
			class = "-"
		}
		fmt.Fprintf(w, "  %s  %-6s %-20s %6.2f%%  %s\n", row.CreatedAt.Format("2006-01-02 15:04:05"), row.Type, class, row.Confidence*100, row.Filename)
	}
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	fmt.Fprintf(w, "%s: %s\n", title, strings.Join(parts, ", "))
}
