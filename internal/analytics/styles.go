package analytics

import "github.com/charmbracelet/lipgloss"

// Styles contains the styling definitions for report formatting.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Subtle   lipgloss.Style
	Amount   lipgloss.Style
	Bar      lipgloss.Style
}

// NewStyles creates a Styles instance with default styling.
func NewStyles() *Styles {
	var (
		primary = lipgloss.Color("#6C5CE7")
		success = lipgloss.Color("#4ECDC4")
		warning = lipgloss.Color("#FFE66D")
		danger  = lipgloss.Color("#FF6B6B")
		subtle  = lipgloss.Color("#666666")
	)

	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(subtle).MarginBottom(1),
		Success:  lipgloss.NewStyle().Foreground(success),
		Warning:  lipgloss.NewStyle().Foreground(warning),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Subtle:   lipgloss.NewStyle().Foreground(subtle),
		Amount:   lipgloss.NewStyle().Bold(true),
		Bar:      lipgloss.NewStyle().Foreground(primary),
	}
}
