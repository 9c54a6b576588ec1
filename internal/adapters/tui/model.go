// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// Progress bar spring at normal pace. The frequency scales with the
// transition speed so pace 0.5 animates half as fast.
const (
	defaultSpringFrequency = 18.0
	springDamping          = 1.0
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// springFrequency maps a pace onto the progress spring frequency.
func springFrequency(pace float64) float64 {
	return defaultSpringFrequency * float64(domain.BaseTransition) / float64(domain.TransitionDuration(pace))
}

// eventMsg carries an engine event into the Bubbletea loop.
type eventMsg domain.Event

// closedMsg is sent when the engine closes the event stream.
type closedMsg struct{}

// waitForEvent reads the next engine event.
func waitForEvent(events <-chan domain.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

type overlay int

const (
	overlayNone overlay = iota
	overlayPicker
	overlayPlan
)

type barKind int

const (
	barWork barKind = iota
	barBreak
)

func barKindOf(snap domain.Snapshot) barKind {
	switch snap.Progress.Phase {
	case domain.PhaseShortBreak, domain.PhaseLongBreak:
		return barBreak
	default:
		return barWork
	}
}

// Options configures the timer screen.
type Options struct {
	Theme *config.ThemeConfig
	// Inline renders a compact view below the prompt instead of taking
	// over the terminal.
	Inline bool
}

// Model represents the TUI state.
type Model struct {
	control  ports.TimerControl
	presets  PresetSource
	events   <-chan domain.Event
	snap     domain.Snapshot
	progress progress.Model
	bar      barKind
	keys     keyMap
	help     help.Model
	overlay  overlay
	picker   presetPicker
	plan     planForm
	message  string
	inline   bool
	width    int
	height   int
	theme    config.ThemeConfig
	quitting bool
}

// NewModel creates a timer screen driven by control.
func NewModel(control ports.TimerControl, presets PresetSource, opts Options) Model {
	m := Model{
		control: control,
		presets: presets,
		snap:    control.Snapshot(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		inline:  opts.Inline,
		theme:   resolveTheme(opts.Theme),
	}
	if m.inline {
		m.width = terminalWidth()
	}
	m.bar = barKindOf(m.snap)
	m.progress = m.newBar(m.bar)
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTitle))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.progress.SetPercent(m.snap.Session.Progress()))
}

func (m Model) newBar(kind barKind) progress.Model {
	start, end := m.theme.WorkGradientStart, m.theme.WorkGradientEnd
	if kind == barBreak {
		start, end = m.theme.BreakGradientStart, m.theme.BreakGradientEnd
	}
	p := progress.New(
		progress.WithGradient(start, end),
		progress.WithSpringOptions(springFrequency(m.snap.Pace.Pace), springDamping),
	)
	p.Width = m.barWidth()
	return p
}

func (m Model) barWidth() int {
	w := m.width - 4
	if m.inline {
		w = m.width - 24
	}
	if w < 10 {
		return 10
	}
	return w
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.barWidth()
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		cmd := m.apply(domain.Event(msg))
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case progress.FrameMsg:
		p, cmd := m.progress.Update(msg)
		if pm, ok := p.(progress.Model); ok {
			m.progress = pm
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other input messages belong to the open overlay.
	var cmd tea.Cmd
	switch m.overlay {
	case overlayPicker:
		m.picker, cmd = m.picker.update(msg)
	case overlayPlan:
		m.plan, cmd = m.plan.update(msg)
	}
	return m, cmd
}

// apply stores an engine event and animates the bar towards it.
func (m *Model) apply(ev domain.Event) tea.Cmd {
	prev := m.snap
	m.snap = ev.Snapshot
	switch {
	case ev.Message != "":
		m.message = ev.Message
	case ev.Type == domain.EventCompleted:
		m.message = fmt.Sprintf("%s complete", domain.GetPhaseLabel(ev.Phase))
	}
	return m.sync(prev)
}

// refresh re-reads the engine after a command.
func (m *Model) refresh() tea.Cmd {
	prev := m.snap
	m.snap = m.control.Snapshot()
	return m.sync(prev)
}

func (m *Model) sync(prev domain.Snapshot) tea.Cmd {
	if kind := barKindOf(m.snap); kind != m.bar {
		m.bar = kind
		m.progress = m.newBar(kind)
	} else if prev.Pace.Pace != m.snap.Pace.Pace {
		m.progress.SetSpringOptions(springFrequency(m.snap.Pace.Pace), springDamping)
	}
	return m.progress.SetPercent(m.snap.Session.Progress())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayPicker:
		return m.updatePicker(msg)
	case overlayPlan:
		return m.updatePlan(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	m.message = ""
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.control.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.control.Reset()
	case key.Matches(msg, m.keys.Pomodoro):
		if err := m.control.StartSession(m.snap.Plan); err != nil {
			m.message = err.Error()
		}
	case key.Matches(msg, m.keys.EndPomodoro):
		if !m.control.ResetSession() {
			m.message = "Pause before ending the Pomodoro session"
		}
	case key.Matches(msg, m.keys.Presets):
		m.overlay = overlayPicker
		m.picker = newPresetPicker(m.presets)
		cmd := m.picker.focus()
		return m, cmd
	case key.Matches(msg, m.keys.Plan):
		if !m.snap.CanEditPlan() {
			m.message = "Pause the session to edit the plan"
			return m, nil
		}
		m.overlay = overlayPlan
		m.plan = newPlanForm(m.snap.Plan)
		cmd := m.plan.focus()
		return m, cmd
	case key.Matches(msg, m.keys.Quick):
		m.selectPreset(int(msg.String()[0] - '1'))
	default:
		return m, nil
	}
	return m, m.refresh()
}

func (m *Model) selectPreset(i int) {
	if m.presets == nil {
		return
	}
	presets := m.presets.List()
	if i < 0 || i >= len(presets) {
		return
	}
	if err := m.control.SelectDuration(presets[i].Seconds); err != nil {
		m.message = err.Error()
	}
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.update(msg)
	switch {
	case m.picker.aborted:
		m.overlay = overlayNone
		return m, nil
	case m.picker.chosen > 0:
		if err := m.control.SelectDuration(m.picker.chosen); err != nil {
			m.picker.err = err.Error()
			m.picker.chosen = 0
			return m, nil
		}
		m.overlay = overlayNone
		m.message = ""
		return m, m.refresh()
	}
	return m, cmd
}

func (m Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.plan, cmd = m.plan.update(msg)
	switch {
	case m.plan.aborted:
		m.overlay = overlayNone
		return m, nil
	case m.plan.done:
		m.overlay = overlayNone
		if err := m.control.SetPlan(m.plan.plan()); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.message = "Plan saved, applies to the next session"
		return m, m.refresh()
	}
	return m, cmd
}

func (m Model) timerColor() lipgloss.Color {
	switch {
	case m.snap.Session.Mode == domain.ModePaused:
		return lipgloss.Color(m.theme.ColorPaused)
	case m.snap.Progress.Phase == domain.PhaseWork:
		return lipgloss.Color(m.theme.ColorWork)
	case m.bar == barBreak:
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorCountdown)
	}
}

// phaseLine describes the Pomodoro position, or the plain countdown.
func (m Model) phaseLine() string {
	p := m.snap.Progress
	if !p.Active() {
		return fmt.Sprintf("Countdown · %s", domain.GetModeLabel(m.snap.Session.Mode))
	}
	return fmt.Sprintf("%s · cycle %d/%d · %s",
		domain.GetPhaseLabel(p.Phase),
		p.CompletedWorkCycles,
		m.snap.ActivePlan().CyclesBeforeLongBreak,
		domain.GetModeLabel(m.snap.Session.Mode))
}

// barView renders the progress bar. A paused countdown is drawn statically
// in the paused gradient.
func (m Model) barView() string {
	if m.snap.Session.Mode == domain.ModePaused {
		pbar := progress.New(progress.WithGradient(m.theme.PausedGradientStart, m.theme.PausedGradientEnd))
		pbar.Width = m.barWidth()
		return pbar.ViewAs(m.snap.Session.Progress())
	}
	return m.progress.View()
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.inline {
		return m.viewInline()
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused))

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s ChronoZen", m.theme.IconApp)))

	switch m.overlay {
	case overlayPicker:
		sections = append(sections, m.picker.view(m.theme))
	case overlayPlan:
		sections = append(sections, m.plan.view(m.theme))
	default:
		sections = append(sections, statusStyle.Render(m.phaseLine()))
		sections = append(sections, "")
		sections = append(sections, renderBigTime(domain.FormatClock(m.snap.Session.RemainingSeconds), m.timerColor(), m.width))

		if m.snap.Session.Mode == domain.ModePaused {
			pauseBadge := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(m.theme.ColorPaused)).
				Padding(0, 1).
				Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
			sections = append(sections, "", pauseBadge)
		}

		sections = append(sections, "", m.barView())

		if m.message != "" {
			msgStyle := lipgloss.NewStyle().Bold(true).Foreground(m.timerColor())
			sections = append(sections, "", msgStyle.Render(m.message))
		}
		if r := m.snap.Pace.Reasoning; r != "" {
			sections = append(sections, helpStyle.Render(fmt.Sprintf("pace %.2f · %s", m.snap.Pace.Pace, r)))
		}

		plan := m.snap.Plan
		sections = append(sections, helpStyle.Render(fmt.Sprintf("Plan %d/%d/%d min ×%d",
			plan.WorkSeconds/60, plan.ShortBreakSeconds/60, plan.LongBreakSeconds/60, plan.CyclesBeforeLongBreak)))
		sections = append(sections, "", m.help.View(m.keys))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
