// Package texture decodes body textures and hands out opaque references to
// them. TGA is the native format; PNG and JPEG are accepted as well.
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"

	"github.com/san-kum/solarsim/internal/orbit"
)

var (
	ErrUnknownTexture = errors.New("texture: unknown reference")
	ErrUnsupported    = errors.New("texture: unsupported format")
)

// Registry loads textures from a directory and caches them by name, so two
// bodies sharing a file share a reference. It implements orbit.TextureLoader.
type Registry struct {
	dir string
	log *slog.Logger

	mu     sync.RWMutex
	byName map[string]orbit.TextureRef
	names  []string
	images []*image.NRGBA
}

func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:    dir,
		log:    slog.With("component", "texture"),
		byName: make(map[string]orbit.TextureRef),
	}
}

// Load decodes dir/name on first use and returns its reference.
func (r *Registry) Load(name string) (orbit.TextureRef, error) {
	r.mu.RLock()
	ref, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return ref, nil
	}

	img, err := DecodeFile(filepath.Join(r.dir, name))
	if err != nil {
		return orbit.NoTexture, err
	}
	ref = r.Add(name, img)
	r.log.Debug("texture loaded", "name", name, "ref", ref,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return ref, nil
}

// Add registers an already decoded image under name, replacing nothing if
// the name is taken.
func (r *Registry) Add(name string, img image.Image) orbit.TextureRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.byName[name]; ok {
		return ref
	}
	r.images = append(r.images, ToNRGBA(img))
	r.names = append(r.names, name)
	ref := orbit.TextureRef(len(r.images))
	r.byName[name] = ref
	return ref
}

func (r *Registry) Image(ref orbit.TextureRef) (*image.NRGBA, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref == orbit.NoTexture || int(ref) > len(r.images) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, ref)
	}
	return r.images[ref-1], nil
}

func (r *Registry) Name(ref orbit.TextureRef) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref == orbit.NoTexture || int(ref) > len(r.names) {
		return ""
	}
	return r.names[ref-1]
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.images)
}

// AverageColor is the mean opaque colour of a texture. Renderers without
// texture mapping use it as the body colour.
func (r *Registry) AverageColor(ref orbit.TextureRef) (color.NRGBA, error) {
	img, err := r.Image(ref)
	if err != nil {
		return color.NRGBA{}, err
	}
	return Average(img), nil
}

func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f), path)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode picks the decoder by extension. image.Decode cannot be used: the
// tga package registers an empty magic string that matches every input.
func Decode(rd io.Reader, name string) (image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".tga":
		return tga.Decode(rd)
	case ".png":
		return png.Decode(rd)
	case ".jpg", ".jpeg":
		return jpeg.Decode(rd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func Average(img *image.NRGBA) color.NRGBA {
	var r, g, b, n uint64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue
			}
			r += uint64(img.Pix[i])
			g += uint64(img.Pix[i+1])
			b += uint64(img.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}
