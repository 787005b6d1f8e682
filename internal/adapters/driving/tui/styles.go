package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the pre-configured lipgloss styles for the chat view.
type Styles struct {
	Title    lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Source   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Input    lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	var (
		primary = lipgloss.Color("#7C3AED") // Purple
		fg      = lipgloss.Color("#CDD6F4") // Light gray
		muted   = lipgloss.Color("#6C7086") // Medium gray
		errCol  = lipgloss.Color("#F38BA8") // Red
		border  = lipgloss.Color("#45475A") // Border gray
	)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Padding(0, 1),
		Question: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Answer: lipgloss.NewStyle().
			Foreground(fg),
		Source: lipgloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Error: lipgloss.NewStyle().
			Foreground(errCol),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}
