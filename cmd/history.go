package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/adapters/git"
	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/services"
)

var (
	historyPeriod string
	historyLimit  int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished countdowns",
	Long: `List countdowns that ran to zero, newest first. Countdowns that were
reset before finishing are not recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(withContext(cmd.Context()), historyPeriod, time.Now())
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(records) > historyLimit {
			records = records[:historyLimit]
		}
		if jsonOutput {
			return outputHistoryJSON(cmd.OutOrStdout(), records)
		}
		printHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyPeriod, "period", "week", "Time period: day, week, month, or all")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries, 0 for no limit")
	rootCmd.AddCommand(historyCmd)
}

func loadRecords(ctx context.Context, period string, now time.Time) ([]*domain.CompletionRecord, error) {
	since, err := services.SincePeriod(period, now)
	if err != nil {
		return nil, err
	}
	records, err := app.history.ListRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return records, nil
}

// exportRecord is the serialized form of a completion record.
type exportRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Phase       string    `json:"phase" yaml:"phase"`
	Seconds     int       `json:"seconds" yaml:"seconds"`
	Cycle       int       `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
	GitBranch   string    `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GitCommit   string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
}

func recordJSON(r *domain.CompletionRecord) exportRecord {
	return exportRecord{
		ID:          r.ID,
		Phase:       string(r.Phase),
		Seconds:     r.Seconds,
		Cycle:       r.Cycle,
		CompletedAt: r.CompletedAt,
		GitBranch:   r.GitBranch,
		GitCommit:   r.GitCommit,
	}
}

func exportRecords(records []*domain.CompletionRecord) []exportRecord {
	out := make([]exportRecord, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON(r))
	}
	return out
}

func outputHistoryJSON(w io.Writer, records []*domain.CompletionRecord) error {
	data, err := json.MarshalIndent(exportRecords(records), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printHistory(w io.Writer, records []*domain.CompletionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No finished countdowns yet.")
		return
	}
	for _, r := range records {
		label := domain.GetPhaseLabel(r.Phase)
		if r.Cycle > 0 {
			label = fmt.Sprintf("%s #%d", label, r.Cycle)
		}
		line := fmt.Sprintf("%s  %-16s %6s", r.CompletedAt.Format("2006-01-02 15:04"), label, formatMinutes(r.Duration()))
		if r.GitBranch != "" {
			line += fmt.Sprintf("  %s@%s", r.GitBranch, git.ShortCommit(r.GitCommit))
		}
		fmt.Fprintln(w, line)
	}
}
