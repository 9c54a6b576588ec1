package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/domain"
)

var (
	pomodoroWork   string
	pomodoroShort  string
	pomodoroLong   string
	pomodoroCycles int
)

// pomodoroCmd represents the pomodoro command
var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Start a Pomodoro session",
	Long: `Open the timer and start a Pomodoro session: work cycles separated by
short breaks, with a long break after the configured number of cycles.
Flags override the configured plan for this session only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := overridePlan(app.config.Plan(), pomodoroWork, pomodoroShort, pomodoroLong, pomodoroCycles)
		if err != nil {
			return err
		}
		if err := app.state.StartSession(plan); err != nil {
			return err
		}
		return runTimer(cmd.Context())
	},
}

func init() {
	addPlanFlags(pomodoroCmd, &pomodoroWork, &pomodoroShort, &pomodoroLong, &pomodoroCycles)
	rootCmd.AddCommand(pomodoroCmd)
}

// addPlanFlags registers the plan override flags shared by pomodoro and
// plan set.
func addPlanFlags(cmd *cobra.Command, work, short, long *string, cycles *int) {
	cmd.Flags().StringVar(work, "work", "", "Work duration, e.g. 50m or 50 (minutes)")
	cmd.Flags().StringVar(short, "short", "", "Short break duration")
	cmd.Flags().StringVar(long, "long", "", "Long break duration")
	cmd.Flags().IntVar(cycles, "cycles", 0, "Work cycles before a long break")
}

// overridePlan applies the non-empty overrides to plan and validates the
// result.
func overridePlan(plan domain.PomodoroPlan, work, short, long string, cycles int) (domain.PomodoroPlan, error) {
	fields := []struct {
		name  string
		value string
		dst   *int
	}{
		{"work", work, &plan.WorkSeconds},
		{"short break", short, &plan.ShortBreakSeconds},
		{"long break", long, &plan.LongBreakSeconds},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		seconds, err := domain.ParseSeconds(f.value)
		if err != nil {
			return plan, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = seconds
	}
	if cycles != 0 {
		plan.CyclesBeforeLongBreak = cycles
	}
	if err := plan.Validate(); err != nil {
		return plan, err
	}
	return plan, nil
}
