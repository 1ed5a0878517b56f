package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the terminal view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Canvas is the colour of the braille scene and of recorded frames.
	Canvas lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:      "deep-space",
		Primary:   lipgloss.Color("#8ab4ff"),
		Secondary: lipgloss.Color("#5c7cbf"),
		Accent:    lipgloss.Color("#ffd166"),
		Text:      lipgloss.Color("#e6ecff"),
		Muted:     lipgloss.Color("#4a5573"),
		Success:   lipgloss.Color("#06d6a0"),
		Warning:   lipgloss.Color("#ffb347"),
		Error:     lipgloss.Color("#ef476f"),
		Canvas:    lipgloss.Color("#dfe7ff"),
	}

	ThemeSolar = Theme{
		Name:      "solar",
		Primary:   lipgloss.Color("#ffb000"),
		Secondary: lipgloss.Color("#ff7b00"),
		Accent:    lipgloss.Color("#fff3b0"),
		Text:      lipgloss.Color("#fff8e7"),
		Muted:     lipgloss.Color("#8c6a3f"),
		Success:   lipgloss.Color("#c5e063"),
		Warning:   lipgloss.Color("#ffd000"),
		Error:     lipgloss.Color("#ff4d4d"),
		Canvas:    lipgloss.Color("#ffcc55"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#ffffff"),
		Warning:   lipgloss.Color("#cccccc"),
		Error:     lipgloss.Color("#ffffff"),
		Canvas:    lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeDeepSpace

	Themes = []Theme{
		ThemeDeepSpace,
		ThemeSolar,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, or the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDeepSpace
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
