package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/domain"
)

// PresetSource lists the durations offered by the picker.
type PresetSource interface {
	List() []domain.Preset
	Search(query string) []domain.Preset
}

// presetPicker filters presets as the user types. Enter picks the
// highlighted preset, or parses the typed text as a custom duration when
// nothing matches.
type presetPicker struct {
	source  PresetSource
	filter  textinput.Model
	items   []domain.Preset
	cursor  int
	chosen  int
	aborted bool
	err     string
}

func newPresetPicker(source PresetSource) presetPicker {
	ti := textinput.New()
	ti.Placeholder = "filter, or 25m / 90s / 12:30"
	ti.Prompt = "› "
	ti.CharLimit = 16
	ti.Width = 30

	p := presetPicker{source: source, filter: ti}
	if source != nil {
		p.items = source.List()
	}
	return p
}

func (p *presetPicker) focus() tea.Cmd {
	return p.filter.Focus()
}

func (p presetPicker) update(msg tea.Msg) (presetPicker, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down", "ctrl+n":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
			return p, nil
		case "enter":
			p.choose()
			return p, nil
		case "esc", "ctrl+c":
			p.aborted = true
			return p, nil
		}
	}

	before := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.err = ""
		p.cursor = 0
		if p.source != nil {
			p.items = p.source.Search(p.filter.Value())
		}
	}
	return p, cmd
}

func (p *presetPicker) choose() {
	if p.cursor < len(p.items) {
		p.chosen = p.items[p.cursor].Seconds
		return
	}
	seconds, err := domain.ParseSeconds(p.filter.Value())
	if err != nil {
		p.err = fmt.Sprintf("invalid duration %q", strings.TrimSpace(p.filter.Value()))
		return
	}
	p.chosen = seconds
}

func (p presetPicker) view(theme config.ThemeConfig) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorCountdown))

	b.WriteString(titleStyle.Render("Duration") + "\n")
	b.WriteString(p.filter.View() + "\n\n")

	if len(p.items) == 0 && strings.TrimSpace(p.filter.Value()) != "" {
		b.WriteString(dimStyle.Render("no preset matches, enter uses the typed duration") + "\n")
	}
	for i, item := range p.items {
		if i == p.cursor {
			b.WriteString(activeStyle.Render("▸ "+item.Label) + "\n")
		} else {
			b.WriteString(dimStyle.Render("  "+item.Label) + "\n")
		}
	}

	if p.err != "" {
		b.WriteString("\n" + errStyle.Render(p.err) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ navigate · enter select · esc back"))
	return b.String()
}

// planForm edits the three Pomodoro durations in minutes.
type planForm struct {
	inputs  [3]textinput.Model
	cycles  int
	focused int
	done    bool
	aborted bool
}

var planLabels = [3]string{"Work", "Short break", "Long break"}

func newPlanForm(plan domain.PomodoroPlan) planForm {
	f := planForm{cycles: plan.CyclesBeforeLongBreak}
	values := [3]int{plan.WorkSeconds, plan.ShortBreakSeconds, plan.LongBreakSeconds}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 4
		ti.Width = 5
		ti.SetValue(fmt.Sprint(values[i] / 60))
		f.inputs[i] = ti
	}
	return f
}

func (f *planForm) focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focused].Focus()
}

func (f planForm) update(msg tea.Msg) (planForm, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			f.focused = (f.focused + 1) % len(f.inputs)
			cmd := f.focus()
			return f, cmd
		case "shift+tab", "up":
			f.focused = (f.focused + len(f.inputs) - 1) % len(f.inputs)
			cmd := f.focus()
			return f, cmd
		case "enter":
			f.done = true
			return f, nil
		case "esc", "ctrl+c":
			f.aborted = true
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

// plan builds the edited plan. Blank or invalid entries fall back to the
// default plan values.
func (f planForm) plan() domain.PomodoroPlan {
	p := domain.PlanFromMinutes(f.inputs[0].Value(), f.inputs[1].Value(), f.inputs[2].Value())
	if f.cycles > 0 {
		p.CyclesBeforeLongBreak = f.cycles
	}
	return p
}

func (f planForm) view(theme config.ThemeConfig) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)).Width(13)
	activeStyle := labelStyle.Foreground(lipgloss.Color(theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))

	b.WriteString(titleStyle.Render("Pomodoro plan (minutes)") + "\n\n")
	for i, in := range f.inputs {
		style := labelStyle
		if i == f.focused {
			style = activeStyle
		}
		b.WriteString(style.Render(planLabels[i]) + in.View() + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Long break after %d cycles", f.cycles)) + "\n")
	b.WriteString("\n" + dimStyle.Render("tab next · enter save · esc cancel"))
	return b.String()
}
