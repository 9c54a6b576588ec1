package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/adapters/git"
	"github.com/xvierd/chronozen/internal/adapters/tui"
	"github.com/xvierd/chronozen/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the timer defaults, today's statistics and the last finished countdown.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := withContext(cmd.Context())

		stats, err := app.state.GetTodayStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get today's stats: %w", err)
		}
		latest, err := app.history.Latest(ctx, 1)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		var last *domain.CompletionRecord
		if len(latest) > 0 {
			last = latest[0]
		}

		snap := app.state.Snapshot()
		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), snap, stats, last)
		}

		out := cmd.OutOrStdout()
		tui.ShowStatus(out, snap, stats)
		if last != nil {
			fmt.Fprintf(out, "\n🕑 Last: %s %s at %s", domain.GetPhaseLabel(last.Phase),
				domain.FormatClock(last.Seconds), last.CompletedAt.Format("15:04"))
			if last.GitBranch != "" {
				fmt.Fprintf(out, " on %s@%s", last.GitBranch, git.ShortCommit(last.GitCommit))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, snap domain.Snapshot, stats *domain.DailyStats, last *domain.CompletionRecord) error {
	result := map[string]any{
		"timer": map[string]any{
			"mode":              string(snap.Session.Mode),
			"phase":             string(snap.Progress.Phase),
			"selected_seconds":  snap.Session.SelectedSeconds,
			"remaining_seconds": snap.Session.RemainingSeconds,
			"pace":              snap.Pace.Pace,
		},
		"plan": map[string]any{
			"work_seconds":             snap.Plan.WorkSeconds,
			"short_break_seconds":      snap.Plan.ShortBreakSeconds,
			"long_break_seconds":       snap.Plan.LongBreakSeconds,
			"cycles_before_long_break": snap.Plan.CyclesBeforeLongBreak,
		},
		"today_stats": nil,
		"last":        nil,
	}

	if stats != nil {
		result["today_stats"] = map[string]any{
			"work_cycles":      stats.WorkCycles,
			"breaks_taken":     stats.BreaksTaken,
			"plain_countdowns": stats.PlainCountdowns,
			"total_work_time":  stats.TotalWorkTime.String(),
			"total_time":       stats.TotalTime.String(),
		}
	}
	if last != nil {
		result["last"] = recordJSON(last)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}
