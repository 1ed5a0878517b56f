package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/solarsim/internal/orbit"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// tgaBytes builds an uncompressed 24-bit true colour TGA with a top-left
// origin and a version 2 footer.
func tgaBytes(w, h int, bgr [][3]byte) []byte {
	hdr := []byte{
		0, 0, 2,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		byte(w), byte(w >> 8), byte(h), byte(h >> 8),
		24, 0x20,
	}
	for _, p := range bgr {
		hdr = append(hdr, p[0], p[1], p[2])
	}
	hdr = append(hdr, make([]byte, 8)...)
	return append(hdr, "TRUEVISION-XFILE.\x00"...)
}

func TestRegistryLoadCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "earth.png"), solid(4, 2, color.NRGBA{10, 20, 30, 255}))

	r := NewRegistry(dir)
	a, err := r.Load("earth.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a == orbit.NoTexture {
		t.Fatal("expected a real reference")
	}
	b, err := r.Load("earth.png")
	if err != nil || b != a {
		t.Errorf("expected cached reference %d, got %d (%v)", a, b, err)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 texture, got %d", r.Len())
	}
	if r.Name(a) != "earth.png" {
		t.Errorf("expected name earth.png, got %q", r.Name(a))
	}

	img, err := r.Image(a)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestRegistryMissingFile(t *testing.T) {
	r := NewRegistry(t.TempDir())
	ref, err := r.Load("nope.tga")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist, got %v", err)
	}
	if ref != orbit.NoTexture {
		t.Errorf("expected NoTexture, got %d", ref)
	}
}

func TestRegistryUnknownRef(t *testing.T) {
	r := NewRegistry("")
	for _, ref := range []orbit.TextureRef{orbit.NoTexture, 7} {
		if _, err := r.Image(ref); !errors.Is(err, ErrUnknownTexture) {
			t.Errorf("ref %d: expected ErrUnknownTexture, got %v", ref, err)
		}
		if _, err := r.AverageColor(ref); !errors.Is(err, ErrUnknownTexture) {
			t.Errorf("ref %d: expected ErrUnknownTexture, got %v", ref, err)
		}
	}
}

func TestDecodeTGA(t *testing.T) {
	data := tgaBytes(4, 2, [][3]byte{
		{0, 0, 255}, {0, 255, 0}, {255, 0, 0}, {0, 0, 0},
		{255, 255, 255}, {30, 20, 10}, {0, 0, 255}, {255, 0, 0},
	})
	img, err := Decode(bytes.NewReader(data), "stars.TGA")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	n := ToNRGBA(img)
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{255, 0, 0, 255}},
		{1, 0, color.NRGBA{0, 255, 0, 255}},
		{2, 0, color.NRGBA{0, 0, 255, 255}},
		{3, 0, color.NRGBA{0, 0, 0, 255}},
		{0, 1, color.NRGBA{255, 255, 255, 255}},
		{1, 1, color.NRGBA{10, 20, 30, 255}},
		{3, 1, color.NRGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		if got := n.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestDecodeByExtension(t *testing.T) {
	want := color.NRGBA{10, 20, 30, 255}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, solid(3, 2, want)); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(bytes.NewReader(pngBuf.Bytes()), "earth.PNG")
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if got := ToNRGBA(img).NRGBAAt(2, 1); got != want {
		t.Errorf("png: expected %v, got %v", want, got)
	}

	var jpgBuf bytes.Buffer
	if err := jpeg.Encode(&jpgBuf, solid(8, 8, color.NRGBA{200, 200, 200, 255}), nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"moon.jpg", "moon.jpeg"} {
		img, err := Decode(bytes.NewReader(jpgBuf.Bytes()), name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
			t.Errorf("%s: unexpected bounds %v", name, img.Bounds())
		}
		if avg := Average(ToNRGBA(img)); avg.R < 190 || avg.R > 210 {
			t.Errorf("%s: expected light grey, got %v", name, avg)
		}
	}

	if _, err := Decode(bytes.NewReader(pngBuf.Bytes()), "earth.bmp"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestRegistryLoadsPNGPixels(t *testing.T) {
	dir := t.TempDir()
	want := color.NRGBA{10, 20, 30, 255}
	writePNG(t, filepath.Join(dir, "mars.png"), solid(2, 2, want))

	r := NewRegistry(dir)
	ref, err := r.Load("mars.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := r.AverageColor(ref); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAverage(t *testing.T) {
	img := solid(2, 2, color.NRGBA{200, 100, 50, 255})
	// transparent pixels do not count
	img.Pix[3] = 0

	if got := Average(img); got != (color.NRGBA{200, 100, 50, 255}) {
		t.Errorf("expected solid colour, got %v", got)
	}
	if got := Average(solid(1, 1, color.NRGBA{})); got != (color.NRGBA{}) {
		t.Errorf("expected zero for fully transparent, got %v", got)
	}
}

func TestRegistryWithSolarSystem(t *testing.T) {
	r := NewRegistry(t.TempDir())
	r.Add("neptune.tga", solid(1, 1, color.NRGBA{0, 0, 255, 255}))

	sys, err := orbit.NewSolarSystem(r)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	nep, _ := sys.Lookup("neptune")
	plu, _ := sys.Lookup("pluto")
	nb, _ := sys.Body(nep)
	pb, _ := sys.Body(plu)
	if nb.Texture == orbit.NoTexture || nb.Texture != pb.Texture {
		t.Errorf("pluto should share neptune's texture: %d vs %d", nb.Texture, pb.Texture)
	}

	earth, _ := sys.Lookup("earth")
	eb, _ := sys.Body(earth)
	if eb.Texture != orbit.NoTexture {
		t.Errorf("missing earth texture should leave the body untextured, got %d", eb.Texture)
	}
}
