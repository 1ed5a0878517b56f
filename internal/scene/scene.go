// Package scene projects the solar system through the camera onto a 2D
// surface. It implements orbit.Renderer, so System.Render and
// System.RenderOrbits feed it directly; rasterisers then draw the collected
// discs and polylines.
package scene

import (
	"math"
	"sort"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
)

// Scales convert kilometres to scene units.
type Scales struct {
	Distance float64
	Size     float64
}

func (s Scales) Point(km dynamo.Vec3) dynamo.Vec3 { return km.Scale(s.Distance) }

// Lens is a perspective projection; FOV is vertical, in degrees.
type Lens struct {
	FOV, Near, Far float64
}

// Projector maps scene points to pixel coordinates on a w x h surface with
// y pointing down.
type Projector struct {
	view   dynamo.Transform
	proj   dynamo.Transform
	lens   Lens
	w, h   float64
	focal  float64
	orthoK float64
	ortho  bool
}

func NewProjector(view dynamo.Transform, lens Lens, w, h int) Projector {
	aspect := float64(w) / float64(h)
	return Projector{
		view:  view,
		proj:  dynamo.Perspective(lens.FOV, aspect, lens.Near, lens.Far),
		lens:  lens,
		w:     float64(w),
		h:     float64(h),
		focal: 1 / math.Tan(dynamo.Deg2Rad(lens.FOV)/2),
	}
}

// NewTopDown looks straight down -Y with -Z towards the top of the surface,
// fitting a square of half-width extent (scene units) into the shorter side.
func NewTopDown(extent float64, w, h int) Projector {
	view := dynamo.Rotation(dynamo.UnitX, dynamo.Vec3{Z: -1}, dynamo.Vec3{Y: -1})
	return Projector{
		view:   view,
		w:      float64(w),
		h:      float64(h),
		orthoK: math.Min(float64(w), float64(h)) / 2 / extent,
		ortho:  true,
	}
}

// Project returns the pixel position of p and its distance in front of the
// camera. ok is false for points behind the near plane or beyond the far one.
func (pr Projector) Project(p dynamo.Vec3) (x, y, depth float64, ok bool) {
	v := pr.view.MulPoint(p)
	if pr.ortho {
		return pr.w/2 + v.X*pr.orthoK, pr.h/2 - v.Y*pr.orthoK, -v.Z, true
	}
	depth = -v.Z
	if depth < pr.lens.Near || depth > pr.lens.Far {
		return 0, 0, depth, false
	}
	ndc := pr.proj.MulPoint(v)
	return (ndc.X + 1) / 2 * pr.w, (1 - ndc.Y) / 2 * pr.h, depth, true
}

// Radius is the on-screen radius in pixels of a sphere of radius r at depth.
func (pr Projector) Radius(r, depth float64) float64 {
	if pr.ortho {
		return r * pr.orthoK
	}
	if depth <= 0 {
		return 0
	}
	return r * pr.focal / depth * pr.h / 2
}

// Disc is a projected body.
type Disc struct {
	ID      orbit.BodyID
	Name    string
	X, Y, R float64
	Depth   float64
	Texture orbit.TextureRef
	Spin    float64
}

// Polyline is a projected orbit ring. Segments with an endpoint outside the
// frustum are dropped, so Points holds runs separated by Breaks.
type Polyline struct {
	Points [][2]float64
	Breaks []int
}

// Collector gathers projected geometry; it satisfies orbit.Renderer.
type Collector struct {
	Projector Projector
	Scales    Scales
	// MinRadius keeps far bodies visible as a dot.
	MinRadius float64

	Discs  []Disc
	Orbits []Polyline
}

func (c *Collector) DrawBody(p orbit.Pose) {
	x, y, depth, ok := c.Projector.Project(c.Scales.Point(p.Position))
	if !ok {
		return
	}
	r := math.Max(c.Projector.Radius(p.Radius*c.Scales.Size, depth), c.MinRadius)
	c.Discs = append(c.Discs, Disc{
		ID: p.ID, Name: p.Name,
		X: x, Y: y, R: r, Depth: depth,
		Texture: p.Texture, Spin: p.SpinAngle,
	})
}

func (c *Collector) DrawOrbit(_ dynamo.Vec3, ring []dynamo.Vec3) {
	if len(ring) == 0 {
		return
	}
	var pl Polyline
	inRun := false
	for i := 0; i <= len(ring); i++ {
		x, y, _, ok := c.Projector.Project(c.Scales.Point(ring[i%len(ring)]))
		if !ok {
			inRun = false
			continue
		}
		if !inRun && len(pl.Points) > 0 {
			pl.Breaks = append(pl.Breaks, len(pl.Points))
		}
		pl.Points = append(pl.Points, [2]float64{x, y})
		inRun = true
	}
	if len(pl.Points) > 1 {
		c.Orbits = append(c.Orbits, pl)
	}
}

// Sorted returns the discs far to near for painter's-order drawing.
func (c *Collector) Sorted() []Disc {
	out := append([]Disc(nil), c.Discs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

func (c *Collector) Reset() {
	c.Discs = c.Discs[:0]
	c.Orbits = c.Orbits[:0]
}

// Segments calls fn for every drawable segment of pl.
func (pl Polyline) Segments(fn func(x0, y0, x1, y1 float64)) {
	next := 0
	for i := 1; i < len(pl.Points); i++ {
		if next < len(pl.Breaks) && pl.Breaks[next] == i {
			next++
			continue
		}
		a, b := pl.Points[i-1], pl.Points[i]
		fn(a[0], a[1], b[0], b[1])
	}
}

// Capture renders sys through the collector, orbits first when wanted.
func Capture(sys *orbit.System, c *Collector, showOrbits bool, segments int) {
	c.Reset()
	if showOrbits {
		sys.RenderOrbits(c, segments)
	}
	sys.Render(c)
}
