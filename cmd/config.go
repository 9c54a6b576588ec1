package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the configuration",
	Long:        `Print the config file location and every setting it holds.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationConfigOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Settings(app.configPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			values := make(map[string]any, len(settings))
			for _, s := range settings {
				values[s.Key] = s.Value
			}
			data, err := json.MarshalIndent(map[string]any{
				"path":     app.configPath,
				"settings": values,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "# %s\n", app.configPath)
		for _, s := range settings {
			fmt.Fprintf(out, "%s = %v\n", s.Key, s.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Store a single setting in the config file, e.g.

  chronozen config set pomodoro.work_duration 50m
  chronozen config set pace.provider off
  chronozen config set timer.presets 10:00,25:00,50:00

The file is left untouched when the key is unknown or the value is invalid.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationConfigOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(app.configPath, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
