package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/domain"
)

var (
	planWork   string
	planShort  string
	planLong   string
	planCycles int
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the Pomodoro plan",
	Long:  `Display the configured work, short break and long break durations.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPlan(cmd, app.config.Plan())
	},
}

// planSetCmd represents the plan set command
var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the Pomodoro plan",
	Long: `Persist new plan durations to the config file. Bare numbers are
minutes. The new plan applies to sessions started afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planWork == "" && planShort == "" && planLong == "" && planCycles == 0 {
			return fmt.Errorf("nothing to change: pass --work, --short, --long or --cycles")
		}
		plan, err := overridePlan(app.config.Plan(), planWork, planShort, planLong, planCycles)
		if err != nil {
			return err
		}
		if err := savePlan(app.configPath, plan); err != nil {
			return err
		}
		return printPlan(cmd, plan)
	},
}

func init() {
	addPlanFlags(planSetCmd, &planWork, &planShort, &planLong, &planCycles)
	planCmd.AddCommand(planSetCmd)
	rootCmd.AddCommand(planCmd)
}

func savePlan(path string, plan domain.PomodoroPlan) error {
	values := []struct{ key, value string }{
		{"pomodoro.work_duration", secondsText(plan.WorkSeconds)},
		{"pomodoro.short_break", secondsText(plan.ShortBreakSeconds)},
		{"pomodoro.long_break", secondsText(plan.LongBreakSeconds)},
		{"pomodoro.cycles_before_long", strconv.Itoa(plan.CyclesBeforeLongBreak)},
	}
	for _, v := range values {
		if err := config.Set(path, v.key, v.value); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
	}
	return nil
}

func secondsText(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func printPlan(cmd *cobra.Command, plan domain.PomodoroPlan) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{
			"work_seconds":             plan.WorkSeconds,
			"short_break_seconds":      plan.ShortBreakSeconds,
			"long_break_seconds":       plan.LongBreakSeconds,
			"cycles_before_long_break": plan.CyclesBeforeLongBreak,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, "🍅 Pomodoro plan")
	fmt.Fprintf(out, "   Work:         %s\n", formatMinutes(time.Duration(plan.WorkSeconds)*time.Second))
	fmt.Fprintf(out, "   Short break:  %s\n", formatMinutes(time.Duration(plan.ShortBreakSeconds)*time.Second))
	fmt.Fprintf(out, "   Long break:   %s\n", formatMinutes(time.Duration(plan.LongBreakSeconds)*time.Second))
	fmt.Fprintf(out, "   Long break after %d work cycles\n", plan.CyclesBeforeLongBreak)
	return nil
}
