package tui

import "github.com/charmbracelet/lipgloss"

// Row statuses shown in the STATUS column.
const (
	StatusPending     = "pending"
	StatusRunning     = "running"
	StatusDownloading = "downloading"
	StatusExtracting  = "extracting"
	StatusDone        = "done"
	StatusSkipped     = "skipped"
	StatusError       = "error"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// BannerStyle styles the startup banner in interactive mode.
	BannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	statusStyles = map[string]lipgloss.Style{
		StatusDone: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		StatusRunning:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusDownloading: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusExtracting:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		StatusSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		StatusPending: lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
