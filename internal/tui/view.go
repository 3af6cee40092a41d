package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmstorey/barkeep/internal/supervisor"
	"github.com/tmstorey/barkeep/internal/ui"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	runningStyle  = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	stoppedStyle  = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	errStyle      = lipgloss.NewStyle().Foreground(ui.ColorError)
	helpStyle     = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("barkeep"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Daemons"))
	b.WriteString("\n")
	if len(m.daemons) == 0 {
		b.WriteString(stoppedStyle.Render("  (none registered)"))
		b.WriteString("\n")
	}
	for i, name := range m.daemons {
		cursor := "  "
		nameStr := name
		if i == m.selected {
			cursor = "> "
			nameStr = selectedStyle.Render(name)
		}

		var state string
		if m.states[name] == supervisor.Running {
			state = runningStyle.Render(ui.SymbolRunning + " running")
		} else {
			state = stoppedStyle.Render(ui.SymbolStopped + " stopped")
		}
		fmt.Fprintf(&b, "%s%-24s %s\n", cursor, nameStr, state)
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Network"))
	b.WriteString("\n")
	b.WriteString("  " + m.networkLine() + "\n")

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Audio"))
	b.WriteString("\n")
	b.WriteString("  " + m.audioLine() + "\n")

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("last error: " + firstLine(m.lastErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine()))
	b.WriteString("\n")
	return b.String()
}

func helpLine() string {
	bindings := []struct{ k, desc string }{
		{dashboardKeys.Up.Help().Key, "up"},
		{dashboardKeys.Down.Help().Key, "down"},
		{dashboardKeys.Toggle.Help().Key, dashboardKeys.Toggle.Help().Desc},
		{dashboardKeys.Quit.Help().Key, dashboardKeys.Quit.Help().Desc},
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.k+" "+b.desc)
	}
	return strings.Join(parts, " · ")
}

func (m Model) networkLine() string {
	if m.net == nil {
		return stoppedStyle.Render("disconnected")
	}

	line := fmt.Sprintf("%s (%s, %s)", m.net.Name, m.net.Type, m.net.Device)
	if m.signal != nil {
		line += fmt.Sprintf("  %s", ui.FormatSignal(m.signal))
	}
	if m.net.Rate != "" {
		line += "  " + m.net.Rate
	}
	return runningStyle.Render(line)
}

func (m Model) audioLine() string {
	if m.vol == nil {
		return stoppedStyle.Render("unknown")
	}

	line := fmt.Sprintf("%d%%", m.vol.Volume)
	if m.vol.Muted {
		line += " [muted]"
	}
	if m.sink != "" {
		line += "  " + m.sink
	}
	if m.vol.Muted {
		return stoppedStyle.Render(line)
	}
	return runningStyle.Render(line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
