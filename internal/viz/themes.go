package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/backdrop/internal/prefs"
	"github.com/san-kum/backdrop/internal/raster"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Canvas is the color effect surfaces are composited over.
func (t Theme) Canvas() raster.Color { return raster.Hex(string(t.Background)) }

var (
	ThemeDark = Theme{
		Name:       string(prefs.Dark),
		Primary:    lipgloss.Color("#3b82f6"), // Blue
		Secondary:  lipgloss.Color("#ff6b35"), // Orange
		Accent:     lipgloss.Color("#39ff14"), // Neon green
		Background: lipgloss.Color("#0a0a0f"),
		Text:       lipgloss.Color("#f5f5f7"),
		Muted:      lipgloss.Color("#666688"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeLight = Theme{
		Name:       string(prefs.Light),
		Primary:    lipgloss.Color("#1d4ed8"),
		Secondary:  lipgloss.Color("#ea580c"),
		Accent:     lipgloss.Color("#15803d"),
		Background: lipgloss.Color("#f5f5f7"),
		Text:       lipgloss.Color("#111118"),
		Muted:      lipgloss.Color("#8888a0"),
		Success:    lipgloss.Color("#15803d"),
		Warning:    lipgloss.Color("#b45309"),
		Error:      lipgloss.Color("#dc2626"),
	}

	// Default theme
	CurrentTheme = ThemeDark

	Themes = []Theme{
		ThemeDark,
		ThemeLight,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ApplyTheme is the hook a prefs.Toggler calls on every change.
func ApplyTheme(t prefs.Theme) {
	SetTheme(string(t))
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
