package wallpaperlib

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// Resampling can be off by a step or two even on flat colours
func near(got color.Color, want color.RGBA) bool {
	r, g, b, a := got.RGBA()
	diff := func(x uint32, y uint8) bool {
		d := int(x>>8) - int(y)
		return d >= -3 && d <= 3
	}
	return diff(r, want.R) && diff(g, want.G) && diff(b, want.B) && diff(a, want.A)
}

func checkPixel(t *testing.T, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.At(x, y); !near(got, want) {
		t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
