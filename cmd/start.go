package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xvierd/chronozen/internal/adapters/tui"
	"github.com/xvierd/chronozen/internal/metrics"
)

var startPaused bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:     "start [duration]",
	Aliases: []string{"run"},
	Short:   "Start a countdown",
	Long: `Open the timer and start counting down. The duration may be a preset
label such as 25:00, or free text like 25 (minutes), 25m, 90s or 1h30m.
Without a duration the default preset is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			seconds, err := app.presets.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := app.state.SelectDuration(seconds); err != nil {
				return err
			}
		}
		if !startPaused {
			app.state.Start()
		}
		return runTimer(cmd.Context())
	},
}

func init() {
	startCmd.Flags().BoolVar(&startPaused, "paused", false, "Select the duration without starting the countdown")
	rootCmd.AddCommand(startCmd)
}

// runTimer shows the timer until the user quits, alongside the pace
// advisor and the optional metrics endpoint. Quitting the timer stops
// the other two.
func runTimer(ctx context.Context) error {
	timer := tui.NewTimer(app.state, app.presets, tui.Options{
		Theme:  &app.config.Theme,
		Inline: inlineMode,
	})

	g, gctx := errgroup.WithContext(withContext(ctx))
	ctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return timer.Run(ctx)
	})
	g.Go(func() error {
		return app.pace.Run(ctx)
	})
	if addr := app.config.Metrics.Addr; addr != "" {
		g.Go(func() error {
			if err := metrics.NewServer(addr, app.log).Run(ctx); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
