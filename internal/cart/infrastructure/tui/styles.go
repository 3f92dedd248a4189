package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorInk       = lipgloss.Color("#1F2937")
	colorMuted     = lipgloss.Color("#6B7280")
	colorAccent    = lipgloss.Color("#2563EB")
	colorHighlight = lipgloss.Color("#F59E0B")
	colorSuccess   = lipgloss.Color("#16A34A")
	colorDanger    = lipgloss.Color("#DC2626")
)

// Styles holds the lipgloss styles for the cart views.
type Styles struct {
	App       lipgloss.Style
	Header    lipgloss.Style
	Box       lipgloss.Style
	ItemTitle lipgloss.Style
	Selected  lipgloss.Style
	Price     lipgloss.Style
	StrikeOut lipgloss.Style
	Savings   lipgloss.Style
	Subtle    lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Success   lipgloss.Style
	TotalLine lipgloss.Style
	HelpBar   lipgloss.Style
	OptionOn  lipgloss.Style
	OptionOff lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		App:       lipgloss.NewStyle().Padding(1, 2),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
		ItemTitle: lipgloss.NewStyle().Bold(true).Foreground(colorInk),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(colorHighlight),
		Price:     lipgloss.NewStyle().Bold(true),
		StrikeOut: lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted),
		Savings:   lipgloss.NewStyle().Foreground(colorSuccess),
		Subtle:    lipgloss.NewStyle().Foreground(colorMuted),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(colorDanger),
		Notice:    lipgloss.NewStyle().Foreground(colorDanger),
		Success:   lipgloss.NewStyle().Foreground(colorSuccess),
		TotalLine: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		HelpBar:   lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		OptionOn:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		OptionOff: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// PlainStyles renders without colour or borders, for piping.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		App: plain, Header: plain, Box: plain, ItemTitle: plain, Selected: plain,
		Price: plain, StrikeOut: plain, Savings: plain, Subtle: plain, Error: plain,
		Notice: plain, Success: plain, TotalLine: plain, HelpBar: plain,
		OptionOn: plain, OptionOff: plain,
	}
}
