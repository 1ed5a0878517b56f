// Package tui prints a plain top-down map of the system for terminals
// without full-screen support, or for piping to a file.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// grid is a width x height block of characters, row-major.
type grid []rune

func newGrid() grid { return make(grid, width*height) }

func (g grid) reset() {
	for i := range g {
		g[i] = ' '
	}
}

func (g grid) at(x, y int) (int, bool) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, false
	}
	return y*width + x, true
}

func (g grid) set(x, y int, c rune) {
	if i, ok := g.at(x, y); ok {
		g[i] = c
	}
}

// fill sets a cell only if nothing is drawn there yet.
func (g grid) fill(x, y int, c rune) {
	if i, ok := g.at(x, y); ok && g[i] == ' ' {
		g[i] = c
	}
}

// line fills the cells between two points, stepping along the longer axis.
func (g grid) line(x0, y0, x1, y1 int, c rune) {
	n := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		g.fill(x0+int(math.Round(t*float64(x1-x0))), y0+int(math.Round(t*float64(y1-y0))), c)
	}
}

func (g grid) row(y int) string { return string(g[y*width : (y+1)*width]) }

// LiveRenderer is a sim.Observer drawing every frame as text. Frames
// arriving faster than frameRate are dropped; a frameRate of zero draws all.
type LiveRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	sys      *orbit.System
	scales   scene.Scales
	extent   float64
	segments int
	interval time.Duration
	clear    bool
	last     time.Time
	cells    grid
}

// NewLiveRenderer draws sys looking straight down, fitting extent scene
// units around the sun.
func NewLiveRenderer(out io.Writer, sys *orbit.System, scales scene.Scales, extent float64, frameRate int) *LiveRenderer {
	r := &LiveRenderer{
		out:      out,
		sys:      sys,
		scales:   scales,
		extent:   extent,
		segments: 72,
		clear:    true,
		cells:    newGrid(),
	}
	if frameRate > 0 {
		r.interval = time.Second / time.Duration(frameRate)
	}
	return r
}

// SetClear controls whether each frame starts by clearing the screen.
func (r *LiveRenderer) SetClear(on bool) { r.clear = on }

func (r *LiveRenderer) OnFrame(f sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interval > 0 {
		now := time.Now()
		if now.Sub(r.last) < r.interval {
			return
		}
		r.last = now
	}
	r.cells.reset()
	r.draw(f)
	r.render(f)
}

// draw projects onto a width x 2*height grid since cells are about twice as
// tall as wide, then halves y.
func (r *LiveRenderer) draw(f sim.Frame) {
	col := &scene.Collector{
		Projector: scene.NewTopDown(r.extent, width, height*2),
		Scales:    r.scales,
	}
	scene.Capture(r.sys, col, f.ShowOrbits, r.segments)

	cell := func(x, y float64) (int, int) {
		return int(math.Round(x)), int(math.Round(y / 2))
	}
	for _, pl := range col.Orbits {
		pl.Segments(func(x0, y0, x1, y1 float64) {
			ax, ay := cell(x0, y0)
			bx, by := cell(x1, y1)
			if abs(bx-ax) > width || abs(by-ay) > height {
				return
			}
			r.cells.line(ax, ay, bx, by, '.')
		})
	}
	for _, d := range col.Sorted() {
		x, y := cell(d.X, d.Y)
		r.cells.set(x, y, marker(d.Name))
	}
	if cam, ok := r.camera(f); ok {
		r.cells.set(cam[0], cam[1], '+')
	}
}

func (r *LiveRenderer) camera(f sim.Frame) ([2]int, bool) {
	x, y, _, ok := scene.NewTopDown(r.extent, width, height*2).Project(f.Camera)
	if !ok {
		return [2]int{}, false
	}
	return [2]int{int(math.Round(x)), int(math.Round(y / 2))}, true
}

// marker is the sun as 'O' and every other body by its initial.
func marker(name string) rune {
	if name == "sun" {
		return 'O'
	}
	for _, c := range name {
		return []rune(strings.ToUpper(string(c)))[0]
	}
	return '*'
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	if r.clear {
		b.WriteString(clearScreen)
	}
	rule := "  " + strings.Repeat("-", width) + "\n"
	fmt.Fprintf(&b, "  solarsim  day=%.2f  speed=%g d/frame\n", f.Time, f.TimeSpeed)
	b.WriteString(rule)
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "  %s\n", r.cells.row(y))
	}
	b.WriteString(rule)
	c := f.Camera
	fmt.Fprintf(&b, "  camera=(%.3f, %.3f, %.3f) frame=%d\n", c.X, c.Y, c.Z, f.Number)

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
