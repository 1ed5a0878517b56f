package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are rebuilt from CurrentTheme on every frame so a theme switch
// takes effect immediately.
type styles struct {
	canvas    lipgloss.Style
	panel     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
	graph     lipgloss.Style
	help      lipgloss.Style
	selected  lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Canvas).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(42),
		header:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		running:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		recording: lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true),
		graph:     lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
	}
}

// GradientText colours each rune of text along a gradient.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// Separator is a muted rule with a centre ornament.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ✦ " + right)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
