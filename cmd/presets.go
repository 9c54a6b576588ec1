package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chronozen/internal/domain"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets [query]",
	Short: "List countdown presets",
	Long:  `List the configured countdown presets, or those fuzzily matching query.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := app.presets.List()
		if len(args) == 1 {
			presets = app.presets.Search(args[0])
		}
		return printPresets(cmd, presets, app.presets.Default())
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func printPresets(cmd *cobra.Command, presets []domain.Preset, def domain.Preset) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		items := make([]map[string]any, 0, len(presets))
		for _, p := range presets {
			items = append(items, map[string]any{
				"label":   p.Label,
				"seconds": p.Seconds,
				"default": p.Label == def.Label,
			})
		}
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(presets) == 0 {
		fmt.Fprintln(out, "No matching presets.")
		return nil
	}
	for i, p := range presets {
		marker := " "
		if p.Label == def.Label {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%d] %-8s %s\n", marker, i+1, p.Label, formatMinutes(p.Duration()))
	}
	return nil
}
