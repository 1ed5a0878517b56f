package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/viz"
)

func hex(c color.NRGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// CanvasToSVG converts a braille canvas, as drawn by the terminal view, to
// SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fg color.NRGBA) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#05050c"/>
<g fill="%s">
`, width, height, width, height, hex(fg))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !canvas.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SceneToSVG writes collected geometry as vector paths and circles, in the
// same paint order as Rasterize.
func SceneToSVG(c *scene.Collector, width, height int, opts Options, palette Palette) string {
	if palette == nil {
		palette = DefaultPalette
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(opts.Background))

	for _, pl := range c.Orbits {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" d="`, hex(opts.OrbitColor))
		first := true
		pl.Segments(func(x0, y0, x1, y1 float64) {
			if first {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x0, y0)
				first = false
			} else {
				fmt.Fprintf(&sb, " M%.1f,%.1f", x0, y0)
			}
			fmt.Fprintf(&sb, " L%.1f,%.1f", x1, y1)
		})
		sb.WriteString("\"/>\n")
	}

	for _, d := range c.Sorted() {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.2f\" fill=\"%s\"><title>%s</title></circle>\n",
			d.X, d.Y, d.R, hex(palette(d.Texture, d.Name)), d.Name)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
