package viz

import (
	"math"

	"github.com/san-kum/solarsim/internal/scene"
)

// RenderScene draws collected geometry onto c: orbit rings as lines, then
// bodies far to near as filled discs. The collector's projector must have
// been built for the canvas size in dots.
func RenderScene(c *Canvas, col *scene.Collector) {
	for _, pl := range col.Orbits {
		pl.Segments(func(x0, y0, x1, y1 float64) {
			c.DrawLine(round(x0), round(y0), round(x1), round(y1))
		})
	}
	for _, d := range col.Sorted() {
		c.FillCircle(d.X, d.Y, d.R)
	}
}

func round(v float64) int { return int(math.Round(v)) }
