package export

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/texture"
)

// Palette picks the fill colour of a body.
type Palette func(tex orbit.TextureRef, name string) color.NRGBA

var bodyColors = map[string]color.NRGBA{
	"sun":     {255, 204, 51, 255},
	"mercury": {160, 150, 140, 255},
	"venus":   {230, 200, 140, 255},
	"earth":   {70, 120, 220, 255},
	"moon":    {190, 190, 190, 255},
	"mars":    {200, 90, 50, 255},
	"jupiter": {210, 170, 120, 255},
	"saturn":  {220, 200, 150, 255},
	"uranus":  {150, 210, 220, 255},
	"neptune": {70, 100, 220, 255},
	"pluto":   {180, 160, 140, 255},
}

// DefaultPalette colours the known bodies by name and everything else white.
func DefaultPalette(_ orbit.TextureRef, name string) color.NRGBA {
	if c, ok := bodyColors[name]; ok {
		return c
	}
	return color.NRGBA{255, 255, 255, 255}
}

// TexturePalette uses the average colour of each body's texture, falling back
// to DefaultPalette for untextured bodies.
func TexturePalette(reg *texture.Registry) Palette {
	return func(tex orbit.TextureRef, name string) color.NRGBA {
		if c, err := reg.AverageColor(tex); err == nil {
			return c
		}
		return DefaultPalette(tex, name)
	}
}

// Options controls a raster snapshot. Supersample renders at that multiple
// of the output size and filters down; values below 2 disable it.
type Options struct {
	Width, Height int
	Supersample   int
	MinRadius     float64
	ShowOrbits    bool
	OrbitSegments int
	Background    color.NRGBA
	OrbitColor    color.NRGBA
}

func DefaultOptions() Options {
	return Options{
		Width:         1024,
		Height:        768,
		Supersample:   3,
		MinRadius:     1.5,
		ShowOrbits:    true,
		OrbitSegments: 360,
		Background:    color.NRGBA{5, 5, 12, 255},
		OrbitColor:    color.NRGBA{90, 90, 110, 255},
	}
}

// View builds the projector for a surface of the given size.
type View func(w, h int) scene.Projector

// Render draws sys as seen through view. Body positions must already be
// computed.
func Render(sys *orbit.System, view View, scales scene.Scales, opts Options, palette Palette) *image.NRGBA {
	if palette == nil {
		palette = DefaultPalette
	}
	ss := max(opts.Supersample, 1)
	w, h := opts.Width*ss, opts.Height*ss

	c := &scene.Collector{
		Projector: view(w, h),
		Scales:    scales,
		MinRadius: opts.MinRadius * float64(ss),
	}
	scene.Capture(sys, c, opts.ShowOrbits, opts.OrbitSegments)

	img := Rasterize(c, w, h, opts, palette)
	if ss == 1 {
		return img
	}
	return Downsample(img, opts.Width, opts.Height)
}

// Rasterize paints collected geometry: orbits first, then bodies far to near.
func Rasterize(c *scene.Collector, w, h int, opts Options, palette Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for _, pl := range c.Orbits {
		pl.Segments(func(x0, y0, x1, y1 float64) {
			line(img, x0, y0, x1, y1, opts.OrbitColor)
		})
	}
	for _, d := range c.Sorted() {
		disc(img, d.X, d.Y, d.R, palette(d.Texture, d.Name))
	}
	return img
}

// Downsample filters img to w x h with Catmull-Rom.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func disc(img *image.NRGBA, cx, cy, r float64, c color.NRGBA) {
	b := img.Bounds()
	x0 := max(int(math.Floor(cx-r)), b.Min.X)
	x1 := min(int(math.Ceil(cx+r)), b.Max.X-1)
	y0 := max(int(math.Floor(cy-r)), b.Min.Y)
	y1 := min(int(math.Ceil(cy+r)), b.Max.Y-1)
	r2 := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// line is a DDA walk; points off the image are skipped by SetNRGBA.
func line(img *image.NRGBA, x0, y0, x1, y1 float64, c color.NRGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		img.SetNRGBA(int(x0), int(y0), c)
		return
	}
	// a segment far outside the image is not worth walking
	if steps > 1<<16 {
		return
	}
	dx, dy := (x1-x0)/float64(steps), (y1-y0)/float64(steps)
	for i := 0; i <= steps; i++ {
		img.SetNRGBA(int(x0+dx*float64(i)), int(y0+dy*float64(i)), c)
	}
}
