package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	statusDone = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	statusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	statusSkipped = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	statusPending = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8888")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "done":
		return statusDone
	case "running":
		return statusRunning
	case "failed":
		return statusFailed
	case "skipped":
		return statusSkipped
	default:
		return statusPending
	}
}
