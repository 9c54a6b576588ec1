// Package mcp provides the MCP (Model Context Protocol) server that lets
// assistants read and drive the timer.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"chronozen",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// timerCommand is a tool that maps onto a single timer transition.
type timerCommand struct {
	name        string
	description string
	run         func(ports.TimerControl) bool
}

var timerCommands = []timerCommand{
	{"start_timer", "Start the countdown, rewinding it first if it already ran", ports.TimerControl.Start},
	{"pause_timer", "Pause a running countdown", ports.TimerControl.Pause},
	{"resume_timer", "Resume a paused countdown", ports.TimerControl.Resume},
	{"reset_timer", "Stop the countdown and rewind it to the selected duration", ports.TimerControl.Reset},
	{"reset_pomodoro", "Abandon the Pomodoro session. Refused while the countdown is running.", ports.TimerControl.ResetSession},
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the countdown state: run mode, remaining time, progress, Pomodoro phase and animation pace"),
		),
		s.handleGetTimerState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_presets",
			mcp.WithDescription("List the preset countdown durations"),
			mcp.WithString(
				"query",
				mcp.Description("Optional fuzzy filter on the preset label, e.g. \"25\""),
			),
		),
		s.handleListPresets,
	)

	s.server.AddTool(
		mcp.NewTool(
			"select_duration",
			mcp.WithDescription("Arm a plain countdown. Leaves any Pomodoro session."),
			mcp.WithString(
				"duration",
				mcp.Required(),
				mcp.Description("Preset label or duration: \"5:00\", \"90s\", \"25m\" or minutes as a bare number"),
			),
		),
		s.handleSelectDuration,
	)

	for _, c := range timerCommands {
		s.server.AddTool(mcp.NewTool(c.name, mcp.WithDescription(c.description)), s.command(c.run))
	}

	s.server.AddTool(
		mcp.NewTool(
			"start_pomodoro",
			mcp.WithDescription("Start a Pomodoro session with the current plan: work, short breaks, then a long break"),
		),
		s.handleStartPomodoro,
	)
	s.server.AddTool(
		mcp.NewTool(
			"set_plan",
			mcp.WithDescription("Change the Pomodoro plan used by the next session. Omitted values are kept."),
			mcp.WithNumber("work_minutes", mcp.Description("Work interval in whole minutes"), mcp.Min(1)),
			mcp.WithNumber("short_break_minutes", mcp.Description("Short break in whole minutes"), mcp.Min(1)),
			mcp.WithNumber("long_break_minutes", mcp.Description("Long break in whole minutes"), mcp.Min(1)),
			mcp.WithNumber("cycles_before_long_break", mcp.Description("Work cycles before the long break"), mcp.Min(1)),
		),
		s.handleSetPlan,
	)

	s.server.AddTool(
		mcp.NewTool("get_today_stats", mcp.WithDescription("Get today's completed work cycles, breaks and countdowns")),
		s.handleGetTodayStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("List the most recent completed countdowns"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of records (default: 10)")),
		),
		s.handleGetHistory,
	)
}

// Start serves MCP requests on stdio until ctx is done or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer s.Stop()

	return server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// stateView is the JSON shape of a timer snapshot.
type stateView struct {
	Mode                string    `json:"mode"`
	SelectedSeconds     int       `json:"selected_seconds"`
	RemainingSeconds    int       `json:"remaining_seconds"`
	Remaining           string    `json:"remaining"`
	Progress            float64   `json:"progress"`
	Phase               string    `json:"phase"`
	PhaseLabel          string    `json:"phase_label"`
	CompletedWorkCycles int       `json:"completed_work_cycles"`
	Plan                planView  `json:"plan"`
	SessionPlan         *planView `json:"session_plan,omitempty"`
	CanEditPlan         bool      `json:"can_edit_plan"`
	Pace                float64   `json:"pace"`
	PaceReasoning       string    `json:"pace_reasoning,omitempty"`
}

type planView struct {
	WorkMinutes           float64 `json:"work_minutes"`
	ShortBreakMinutes     float64 `json:"short_break_minutes"`
	LongBreakMinutes      float64 `json:"long_break_minutes"`
	CyclesBeforeLongBreak int     `json:"cycles_before_long_break"`
}

func planViewOf(plan domain.PomodoroPlan) planView {
	return planView{
		WorkMinutes:           float64(plan.WorkSeconds) / 60,
		ShortBreakMinutes:     float64(plan.ShortBreakSeconds) / 60,
		LongBreakMinutes:      float64(plan.LongBreakSeconds) / 60,
		CyclesBeforeLongBreak: plan.CyclesBeforeLongBreak,
	}
}

func viewOf(snap domain.Snapshot) stateView {
	var session *planView
	if snap.Progress.Active() {
		v := planViewOf(snap.SessionPlan)
		session = &v
	}
	return stateView{
		Mode:                string(snap.Session.Mode),
		SelectedSeconds:     snap.Session.SelectedSeconds,
		RemainingSeconds:    snap.Session.RemainingSeconds,
		Remaining:           domain.FormatClock(snap.Session.RemainingSeconds),
		Progress:            snap.Session.Progress(),
		Phase:               string(snap.Progress.Phase),
		PhaseLabel:          domain.GetPhaseLabel(snap.Progress.Phase),
		CompletedWorkCycles: snap.Progress.CompletedWorkCycles,
		Plan:                planViewOf(snap.Plan),
		SessionPlan:         session,
		CanEditPlan:         snap.CanEditPlan(),
		Pace:                snap.Pace.Pace,
		PaceReasoning:       snap.Pace.Reasoning,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) stateResult(changed bool) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"changed": changed,
		"state":   viewOf(s.stateProvider.Snapshot()),
	})
}

// command adapts a timer transition to a tool handler. A refused
// transition is reported as changed=false, not as an error.
func (s *Server) command(fn func(ports.TimerControl) bool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.stateResult(fn(s.stateProvider))
	}
}

// handleGetTimerState handles the get_timer_state tool.
func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(viewOf(s.stateProvider.Snapshot()))
}

// handleListPresets handles the list_presets tool.
func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")

	presets := s.stateProvider.SearchPresets(query)
	result := make([]map[string]any, 0, len(presets))
	for _, p := range presets {
		result = append(result, map[string]any{
			"label":   p.Label,
			"seconds": p.Seconds,
		})
	}
	return jsonResult(result)
}

// handleSelectDuration handles the select_duration tool.
func (s *Server) handleSelectDuration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("duration")
	if err != nil {
		return mcp.NewToolResultError("duration is required: " + err.Error()), nil
	}

	seconds, err := s.stateProvider.ResolveDuration(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid duration: %v", err)), nil
	}
	if err := s.stateProvider.SelectDuration(seconds); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to select duration: %v", err)), nil
	}
	return s.stateResult(true)
}

// handleStartPomodoro handles the start_pomodoro tool.
func (s *Server) handleStartPomodoro(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan := s.stateProvider.Snapshot().Plan
	if err := s.stateProvider.StartSession(plan); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start pomodoro: %v", err)), nil
	}
	return s.stateResult(true)
}

// handleSetPlan handles the set_plan tool.
func (s *Server) handleSetPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan := s.stateProvider.Snapshot().Plan
	args := request.GetArguments()

	var invalid []string
	// whole reads an integer argument, keeping current when it is omitted.
	whole := func(key string, current, scale int) int {
		if _, ok := args[key]; !ok {
			return current
		}
		v := request.GetFloat(key, 0)
		if v != math.Trunc(v) {
			invalid = append(invalid, key)
			return current
		}
		return int(v) * scale
	}
	plan.WorkSeconds = whole("work_minutes", plan.WorkSeconds, 60)
	plan.ShortBreakSeconds = whole("short_break_minutes", plan.ShortBreakSeconds, 60)
	plan.LongBreakSeconds = whole("long_break_minutes", plan.LongBreakSeconds, 60)
	plan.CyclesBeforeLongBreak = whole("cycles_before_long_break", plan.CyclesBeforeLongBreak, 1)
	if len(invalid) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set plan: %v must be whole numbers", invalid)), nil
	}

	if err := s.stateProvider.SetPlan(plan); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set plan: %v", err)), nil
	}
	return s.stateResult(true)
}

// handleGetTodayStats handles the get_today_stats tool.
func (s *Server) handleGetTodayStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stateProvider.GetTodayStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's stats: %w", err)
	}

	return jsonResult(map[string]any{
		"work_cycles":      stats.WorkCycles,
		"breaks_taken":     stats.BreaksTaken,
		"plain_countdowns": stats.PlainCountdowns,
		"total_work_time":  stats.TotalWorkTime.String(),
		"total_time":       stats.TotalTime.String(),
	})
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)

	records, err := s.stateProvider.GetRecentHistory(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get history: %v", err)), nil
	}

	result := make([]map[string]any, 0, len(records))
	for _, r := range records {
		entry := map[string]any{
			"id":           r.ID,
			"phase":        string(r.Phase),
			"duration":     domain.FormatClock(r.Seconds),
			"cycle":        r.Cycle,
			"completed_at": r.CompletedAt.Format("2006-01-02T15:04:05"),
		}
		if r.GitBranch != "" {
			entry["git_branch"] = r.GitBranch
			entry["git_commit"] = r.GitCommit
		}
		result = append(result, entry)
	}
	return jsonResult(result)
}
