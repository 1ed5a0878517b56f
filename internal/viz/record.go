package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoFrames is returned when saving a recording that captured nothing.
var ErrNoFrames = errors.New("viz: no frames recorded")

const (
	charW = 8
	charH = 16
	// gifDelay is in hundredths of a second.
	gifDelay = 4
)

// Recorder turns canvas frames into an animated GIF.
type Recorder struct {
	frames []*image.Paletted
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterises the current canvas, each braille dot becoming a
// charW/2 x charH/4 block in fg on black.
func (r *Recorder) Capture(c *Canvas, fg color.Color) {
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, fg})
	dotW, dotH := charW/2, charH/4
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the recording to path and clears it.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	r.frames = r.frames[:0]
	return nil
}

// themeColor converts a "#rrggbb" theme colour for image output.
func themeColor(c lipgloss.Color) color.NRGBA {
	r, g, b := parseHex(string(c))
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
