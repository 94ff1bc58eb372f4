package wallpaperlib

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Resampler picks the interpolation used when scaling source images.
type Resampler string

const (
	CatmullRom Resampler = "catmullrom"
	Bilinear   Resampler = "bilinear"
	Nearest    Resampler = "nearest"
	// Lanczos goes through nfnt/resize, the others through x/image/draw
	Lanczos Resampler = "lanczos"
)

func ParseResampler(s string) (Resampler, error) {
	switch r := Resampler(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return CatmullRom, nil
	case CatmullRom, Bilinear, Nearest, Lanczos:
		return r, nil
	}
	return "", fmt.Errorf("Unknown resampler [%s]", s)
}

func (r Resampler) interpolator() draw.Interpolator {
	switch r {
	case Bilinear:
		return draw.BiLinear
	case Nearest:
		return draw.NearestNeighbor
	}
	return draw.CatmullRom
}

// LoadImage decodes a still image. Every failure, including a missing file,
// comes back as an *ImageDecodeError naming the path.
func LoadImage(path AbsolutePath) (image.Image, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}

	if !fi.Mode().IsRegular() {
		return nil, &ImageDecodeError{
			Path: path, Err: fmt.Errorf("Input image is not a regular file")}
	}

	img, _, err := image.Decode(in)
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &ImageDecodeError{Path: path, Err: fmt.Errorf("Image is empty")}
	}
	return img, nil
}

// Centered part of src that has the aspect ratio of w:h
func coverCrop(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()

	if sw*h > sh*w {
		// Source is wider than the target, crop the sides
		cw := int(math.Round(float64(sh) * float64(w) / float64(h)))
		if cw < 1 {
			cw = 1
		}
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}

	ch := int(math.Round(float64(sw) * float64(h) / float64(w)))
	if ch < 1 {
		ch = 1
	}
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if r == img.Bounds() {
		return img
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// Scales src into r of dst according to fit. Transparent sources are
// flattened onto whatever dst already holds.
func scaleInto(
	dst draw.Image, r image.Rectangle, src image.Image, fit FitMode, rs Resampler) {

	srcRect := src.Bounds()
	if fit.covers() {
		srcRect = coverCrop(srcRect, r.Dx(), r.Dy())
	}

	if rs == Lanczos {
		scaled := resize.Resize(
			uint(r.Dx()), uint(r.Dy()), subImage(src, srcRect), resize.Lanczos3)
		draw.Draw(dst, r, scaled, scaled.Bounds().Min, draw.Over)
		return
	}

	rs.interpolator().Scale(dst, r, src, srcRect, draw.Over, nil)
}

func newCanvas(r image.Rectangle) *image.RGBA {
	canvas := image.NewRGBA(r)
	draw.Draw(canvas, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	return canvas
}

// FitImage returns src scaled to exactly width x height.
func FitImage(src image.Image, width, height int, fit FitMode, rs Resampler) *image.RGBA {
	dst := newCanvas(image.Rect(0, 0, width, height))
	scaleInto(dst, dst.Bounds(), src, fit, rs)
	return dst
}
