// Package metrics summarises a flight frame by frame. Every metric is a
// sim.Observer; Set bundles several behind one.
package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/sim"
)

type Metric interface {
	Name() string
	OnFrame(f sim.Frame)
	Value() float64
	Reset()
}

// PathLength is the distance the camera has travelled in scene units.
type PathLength struct {
	name  string
	last  dynamo.Vec3
	seen  bool
	total float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) OnFrame(f sim.Frame) {
	if p.seen {
		p.total += f.Camera.Sub(p.last).Length()
	}
	p.last, p.seen = f.Camera, true
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.seen = false
}

// ClosestApproach tracks the smallest camera to body-centre distance in km.
// Poses are in km and the camera in scene units, so the distance scale is
// needed to compare them.
type ClosestApproach struct {
	name          string
	distanceScale float64
	best          float64
	body          string
}

func NewClosestApproach(distanceScale float64) *ClosestApproach {
	c := &ClosestApproach{name: "closest_approach_km", distanceScale: distanceScale}
	c.Reset()
	return c
}

func (c *ClosestApproach) Name() string { return c.name }

func (c *ClosestApproach) OnFrame(f sim.Frame) {
	if c.distanceScale <= 0 {
		return
	}
	cam := f.Camera.Scale(1 / c.distanceScale)
	for _, p := range f.Poses {
		if d := p.Position.Sub(cam).Length(); d < c.best {
			c.best, c.body = d, p.Name
		}
	}
}

// Value is +Inf until a frame with at least one body is seen.
func (c *ClosestApproach) Value() float64 { return c.best }

// Body is the name of the body the closest approach was made to.
func (c *ClosestApproach) Body() string { return c.body }

func (c *ClosestApproach) Reset() {
	c.best = math.Inf(1)
	c.body = ""
}

// InputActivity is the fraction of frames with at least one command held.
type InputActivity struct {
	name    string
	active  int
	samples int
}

func NewInputActivity() *InputActivity {
	return &InputActivity{name: "input_activity"}
}

func (a *InputActivity) Name() string { return a.name }

func (a *InputActivity) OnFrame(f sim.Frame) {
	if f.Intent != control.None {
		a.active++
	}
	a.samples++
}

func (a *InputActivity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.active) / float64(a.samples)
}

func (a *InputActivity) Reset() {
	a.active = 0
	a.samples = 0
}

// Elapsed is the simulated time covered, in days. Negative when time runs
// backwards.
type Elapsed struct {
	name        string
	first, last float64
	seen        bool
}

func NewElapsed() *Elapsed {
	return &Elapsed{name: "elapsed_days"}
}

func (e *Elapsed) Name() string { return e.name }

func (e *Elapsed) OnFrame(f sim.Frame) {
	if !e.seen {
		e.first = f.Time - f.TimeSpeed
		e.seen = true
	}
	e.last = f.Time
}

func (e *Elapsed) Value() float64 {
	if !e.seen {
		return 0
	}
	return e.last - e.first
}

func (e *Elapsed) Reset() {
	e.seen = false
	e.first, e.last = 0, 0
}

// Set fans frames out to its metrics.
type Set []Metric

// Default returns the standard flight summary.
func Default(distanceScale float64) Set {
	return Set{
		NewElapsed(),
		NewPathLength(),
		NewClosestApproach(distanceScale),
		NewInputActivity(),
	}
}

func (s Set) OnFrame(f sim.Frame) {
	for _, m := range s {
		m.OnFrame(f)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names lists the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
