package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xvierd/chronozen/internal/adapters/mcp"
	"github.com/xvierd/chronozen/internal/metrics"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server owns a timer of its own and exposes tools to start, pause, resume and
reset it, run Pomodoro sessions, and query presets and history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("MCP server is disabled in the config (mcp.enabled)")
		}

		// stdout carries the protocol.
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "🚀 Starting MCP server...")
		fmt.Fprintln(errOut, "   The server will communicate via stdio")
		fmt.Fprintln(errOut, "   Press Ctrl+C to stop")

		server := mcp.NewServer(app.state, Version)

		g, gctx := errgroup.WithContext(withContext(cmd.Context()))
		ctx, cancel := context.WithCancel(gctx)
		defer cancel()

		g.Go(func() error {
			defer cancel()
			err := server.Start(ctx)
			if err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			return app.pace.Run(ctx)
		})
		if addr := app.config.Metrics.Addr; addr != "" {
			g.Go(func() error {
				return metrics.NewServer(addr, app.log).Run(ctx)
			})
		}
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
