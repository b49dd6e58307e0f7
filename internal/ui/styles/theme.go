// Package styles holds the colour theme shared by the UI components.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - playing track, focused panel
	Secondary lipgloss.Color // Gold - rate and mode indicators

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color // Primary text (bright)
	FgMuted  lipgloss.Color // Secondary text (dimmed)
	FgSubtle lipgloss.Color // Tertiary text (very dim)

	BgCursor lipgloss.Color // Cursor/selection highlight

	Border      lipgloss.Color // Unfocused panel borders
	BorderFocus lipgloss.Color // Focused panel borders

	// Progress bar
	ProgressFill     lipgloss.Color
	ProgressBuffered lipgloss.Color
	ProgressEmpty    lipgloss.Color

	// Spectrum gradient, low to high
	SpectrumLow  lipgloss.Color
	SpectrumMid  lipgloss.Color
	SpectrumHigh lipgloss.Color

	Success lipgloss.Color // Green - playing
	Error   lipgloss.Color // Red - failures
	Warning lipgloss.Color // Orange - loading

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base     lipgloss.Style // Default text
	Muted    lipgloss.Style // Dimmed text
	Subtle   lipgloss.Style // Very dim text
	Title    lipgloss.Style // Bold, bright
	Playing  lipgloss.Style // Currently playing track
	Cursor   lipgloss.Style // Cursor background highlight
	Accent   lipgloss.Style
	Filled   lipgloss.Style // Played part of the progress bar
	Buffered lipgloss.Style
	Empty    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	ProgressFill:     lipgloss.Color("#a78bfa"),
	ProgressBuffered: lipgloss.Color("#5b4e8a"),
	ProgressEmpty:    lipgloss.Color("#3a3a3a"),

	SpectrumLow:  lipgloss.Color("#3b82f6"),
	SpectrumMid:  lipgloss.Color("#8b5cf6"),
	SpectrumHigh: lipgloss.Color("#f59e0b"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Accent:   lipgloss.NewStyle().Foreground(t.Secondary),
		Filled:   lipgloss.NewStyle().Foreground(t.ProgressFill),
		Buffered: lipgloss.NewStyle().Foreground(t.ProgressBuffered),
		Empty:    lipgloss.NewStyle().Foreground(t.ProgressEmpty),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
	}
}
