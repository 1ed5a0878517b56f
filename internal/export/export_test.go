package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/viz"
)

func smallSystem(t *testing.T) *orbit.System {
	t.Helper()
	sys := orbit.NewSystem()
	if _, err := sys.AddPlanet("sun", 0, 0, 0, 10, orbit.NoTexture); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.AddPlanet("earth", 80, 4, 1, 5, orbit.NoTexture); err != nil {
		t.Fatal(err)
	}
	sys.CalculatePositions(0)
	return sys
}

func topDown(extent float64) View {
	return func(w, h int) scene.Projector { return scene.NewTopDown(extent, w, h) }
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Width, opts.Height = 100, 100
	opts.Supersample = 1
	opts.MinRadius = 0
	return opts
}

func TestRenderTopDown(t *testing.T) {
	sys := smallSystem(t)
	opts := testOptions()
	img := Render(sys, topDown(100), scene.Scales{Distance: 1, Size: 1}, opts, nil)

	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	if got := img.NRGBAAt(50, 50); got != bodyColors["sun"] {
		t.Errorf("expected sun colour at centre, got %v", got)
	}
	// earth sits at +X 80 of an extent of 100, so 40 px right of centre
	if got := img.NRGBAAt(90, 50); got != bodyColors["earth"] {
		t.Errorf("expected earth colour, got %v", got)
	}
	if got := img.NRGBAAt(2, 2); got != opts.Background {
		t.Errorf("expected background in the corner, got %v", got)
	}
	// orbit ring passes through the top of earth's circle
	if got := img.NRGBAAt(50, 10); got != opts.OrbitColor {
		t.Errorf("expected orbit colour, got %v", got)
	}
}

func TestRenderSupersampled(t *testing.T) {
	opts := testOptions()
	opts.Supersample = 3
	img := Render(smallSystem(t), topDown(100), scene.Scales{Distance: 1, Size: 1}, opts, nil)

	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("expected output size kept, got %v", img.Bounds())
	}
	c := img.NRGBAAt(50, 50)
	sun := bodyColors["sun"]
	if diff(c.R, sun.R) > 4 || diff(c.G, sun.G) > 4 || diff(c.B, sun.B) > 4 {
		t.Errorf("expected sun colour at centre, got %v", c)
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestPalettes(t *testing.T) {
	if DefaultPalette(orbit.NoTexture, "comet") != (color.NRGBA{255, 255, 255, 255}) {
		t.Error("unknown body should be white")
	}
	if DefaultPalette(orbit.NoTexture, "mars") != bodyColors["mars"] {
		t.Error("expected mars colour")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.png", PNG, true},
		{"dir/a.WEBP", WebP, true},
		{"a.jpg", "", false},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("%s: expected %q/%v, got %q/%v", tt.path, tt.want, tt.ok, got, err)
		}
	}
}

func TestEncode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(3, 3, color.NRGBA{255, 0, 0, 255})

	var buf bytes.Buffer
	if err := Encode(&buf, img, PNG); err != nil {
		t.Fatalf("png: %v", err)
	}
	back, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := back.At(3, 3).RGBA(); r>>8 != 255 {
		t.Errorf("pixel lost in png round trip")
	}

	buf.Reset()
	if err := Encode(&buf, img, WebP); err != nil {
		t.Fatalf("webp: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("RIFF")) || !bytes.Contains(buf.Bytes()[:16], []byte("WEBP")) {
		t.Errorf("expected a RIFF/WEBP container, got % x", buf.Bytes()[:16])
	}

	if err := Encode(&buf, img, "gif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	path := filepath.Join(dir, "nested", "snap.webp")
	if err := SaveImage(path, img); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("expected non-empty file, got %v %v", fi, err)
	}
	if err := SaveImage(filepath.Join(dir, "snap.bmp"), img); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestSceneToSVG(t *testing.T) {
	sys := smallSystem(t)
	c := &scene.Collector{Projector: scene.NewTopDown(100, 100, 100), Scales: scene.Scales{Distance: 1, Size: 1}}
	scene.Capture(sys, c, true, 32)

	svg := SceneToSVG(c, 100, 100, testOptions(), nil)
	if !strings.Contains(svg, "<title>earth</title>") || !strings.Contains(svg, "<title>sun</title>") {
		t.Errorf("expected both bodies in svg:\n%s", svg)
	}
	if strings.Count(svg, "<path") != 1 {
		t.Errorf("expected one orbit path, got %d", strings.Count(svg, "<path"))
	}
}

func TestCanvasToSVG(t *testing.T) {
	canvas := viz.NewCanvas(2, 1)
	canvas.Set(0, 0)
	canvas.Set(3, 3)

	svg := CanvasToSVG(canvas, 2, color.NRGBA{0, 255, 0, 255})
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#00ff00"`) {
		t.Error("expected foreground colour")
	}
	if CanvasToSVG(nil, 1, color.NRGBA{}) != "" {
		t.Error("expected empty output for nil canvas")
	}
}
