package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the UI.
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Muted         lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	TableHeader      lipgloss.Color
	TableRowSelected lipgloss.Color
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "default":
		return DefaultTheme()
	default:
		return DefaultTheme()
	}
}
