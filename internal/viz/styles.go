package viz

import "github.com/charmbracelet/lipgloss"

const panelWidth = 36

type styles struct {
	header lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	panel  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		status: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 1).
			Width(panelWidth - 1),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value: lipgloss.NewStyle().Foreground(t.Text),
		graph: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:  lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
	}
}

// swatch renders a colored block for a palette entry.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
