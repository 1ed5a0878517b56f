package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// FormatFromPath picks the encoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("export: unsupported image extension %q", filepath.Ext(path))
	}
}

func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("export: unsupported format %q", f)
	}
}

// SaveImage writes img to path in the format implied by its extension.
func SaveImage(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	return out.Close()
}
