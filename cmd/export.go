package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/chronozen/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export countdown history",
	Long:  "Export your finished countdowns as markdown, CSV, JSON or YAML.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		records, err := loadRecords(withContext(cmd.Context()), exportPeriod, now)
		if err != nil {
			return err
		}
		return writeExport(cmd.OutOrStdout(), exportFormat, records, now)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv, json or yaml")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: day, week, month, or all")
}

func writeExport(w io.Writer, format string, records []*domain.CompletionRecord, now time.Time) error {
	switch format {
	case "md", "markdown":
		return exportMarkdown(w, records, now)
	case "csv":
		return exportCSV(w, records)
	case "json":
		return outputHistoryJSON(w, records)
	case "yaml", "yml":
		return exportYAML(w, records)
	default:
		return fmt.Errorf("unknown export format %q: use md, csv, json or yaml", format)
	}
}

func exportMarkdown(w io.Writer, records []*domain.CompletionRecord, now time.Time) error {
	fmt.Fprintf(w, "# ChronoZen Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n", now.Format("2006-01-02 15:04"))

	day := ""
	var work time.Duration
	for _, r := range records {
		if d := r.CompletedAt.Format("2006-01-02"); d != day {
			day = d
			fmt.Fprintf(w, "\n## %s\n\n", day)
		}
		fmt.Fprintf(w, "- %s %s (%s)", r.CompletedAt.Format("15:04"), domain.GetPhaseLabel(r.Phase), formatMinutes(r.Duration()))
		if r.Cycle > 0 {
			fmt.Fprintf(w, ", cycle %d", r.Cycle)
		}
		if r.GitBranch != "" {
			fmt.Fprintf(w, ", on `%s`", r.GitBranch)
		}
		fmt.Fprintln(w)
		if r.IsWork() {
			work += r.Duration()
		}
	}

	fmt.Fprintf(w, "\nTotal: %d countdowns, %s of work\n", len(records), formatMinutes(work))
	return nil
}

func exportCSV(w io.Writer, records []*domain.CompletionRecord) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"completed_at", "phase", "seconds", "cycle", "git_branch", "git_commit"})
	for _, r := range records {
		_ = cw.Write([]string{
			r.CompletedAt.Format(time.RFC3339),
			string(r.Phase),
			strconv.Itoa(r.Seconds),
			strconv.Itoa(r.Cycle),
			r.GitBranch,
			r.GitCommit,
		})
	}

	cw.Flush()
	return cw.Error()
}

func exportYAML(w io.Writer, records []*domain.CompletionRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"records": exportRecords(records)}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
