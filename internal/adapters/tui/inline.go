package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/chronozen/internal/domain"
)

// terminalWidth returns the current terminal width, defaulting to 80.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// viewInline renders the compact three-line timer.
func (m Model) viewInline() string {
	accent := lipgloss.NewStyle().Foreground(m.timerColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	switch m.overlay {
	case overlayPicker:
		return m.picker.view(m.theme) + "\n"
	case overlayPlan:
		return m.plan.view(m.theme) + "\n"
	}

	var b strings.Builder
	session := m.snap.Session

	label := domain.GetPhaseLabel(m.snap.Progress.Phase)
	if m.snap.Progress.Active() {
		label = fmt.Sprintf("%s %d/%d", label, m.snap.Progress.CompletedWorkCycles, m.snap.ActivePlan().CyclesBeforeLongBreak)
	}
	line := fmt.Sprintf("  %s %s  %s", m.theme.IconApp, label, domain.FormatClock(session.RemainingSeconds))
	if session.Mode == domain.ModePaused {
		line += fmt.Sprintf("  %s PAUSED", m.theme.IconPaused)
	}
	b.WriteString(accent.Render(line))
	if m.message != "" {
		b.WriteString(dim.Render("  " + m.message))
	}
	b.WriteString("\n")

	b.WriteString("  " + m.barView())
	b.WriteString(dim.Render(fmt.Sprintf("  %d%%", int(session.Progress()*100))))
	b.WriteString("\n")

	b.WriteString("  " + m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n")

	return b.String()
}
