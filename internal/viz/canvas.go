package viz

import (
	"math"
	"strings"
)

// dotBits gives the braille bit for each dot of a 2x4 cell, indexed
// [y%4][x%2]. Dots 7 and 8 sit on the bottom row.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 dots. Coordinates
// passed to the drawing methods are in dots.
type Canvas struct {
	Width, Height int
	masks         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, masks: make([]uint8, w*h)}
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) index(x, y int) (i int, bit uint8, ok bool) {
	w, h := c.Dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.index(x, y); ok {
		c.masks[i] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if i, bit, ok := c.index(x, y); ok {
		c.masks[i] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.index(x, y)
	return ok && c.masks[i]&bit != 0
}

// Cell is the braille rune at a character position.
func (c *Canvas) Cell(row, col int) rune {
	if row < 0 || col < 0 || row >= c.Height || col >= c.Width {
		return brailleBase
	}
	return brailleBase + rune(c.masks[row*c.Width+col])
}

func (c *Canvas) Clear() { clear(c.masks) }

// DrawLine steps along the longer axis and rounds the other. Segments
// spanning far beyond the canvas are skipped.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(absInt(dx), absInt(dy))
	if w, h := c.Dots(); absInt(dx) > 8*w || absInt(dy) > 8*h {
		return
	}
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.Set(x0+int(math.Round(t*float64(dx))), y0+int(math.Round(t*float64(dy))))
	}
}

// FillCircle sets every dot within r of (cx, cy). A radius under one dot
// still marks the centre.
func (c *Canvas) FillCircle(cx, cy, r float64) {
	if r < 0.5 {
		c.Set(int(cx), int(cy))
		return
	}
	w, h := c.Dots()
	x0, x1 := max(int(math.Floor(cx-r)), 0), min(int(math.Ceil(cx+r)), w-1)
	y0, y1 := max(int(math.Floor(cy-r)), 0), min(int(math.Ceil(cy+r)), h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.Cell(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
