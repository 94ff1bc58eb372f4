package wallpaperlib

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/charmbracelet/log"
)

// Assignment pairs a monitor with the image it should show.
type Assignment struct {
	Monitor Monitor
	Path    AbsolutePath
	Fit     FitMode
}

// AssignmentsFromMonitors uses each monitor's own Wallpaper and Fit.
func AssignmentsFromMonitors(ms []Monitor) []Assignment {
	out := make([]Assignment, len(ms))
	for i, m := range ms {
		out[i] = Assignment{Monitor: m, Path: m.Wallpaper, Fit: m.Fit.Normalize()}
	}
	return out
}

// Compositor renders assignments into one image covering all of them.
type Compositor interface {
	Composite(ctx context.Context, as []Assignment) (image.Image, error)
}

type Merger struct {
	Resampler Resampler
}

func NewMerger(rs Resampler) *Merger {
	return &Merger{Resampler: rs}
}

// CanvasBounds is the bounding box of every monitor, moved so that its
// top-left corner is the origin, along with the offset that was removed.
func CanvasBounds(as []Assignment) (image.Rectangle, image.Point) {
	gs := make([]Geometry, len(as))
	for i, a := range as {
		gs[i] = a.Monitor.Geometry
	}
	b := Bounds(gs...)
	return b.Sub(b.Min), b.Min
}

// Composite decodes, fits and pastes every assignment. Regions don't overlap
// once mirrored outputs have been merged, so the order doesn't matter.
func (mg *Merger) Composite(ctx context.Context, as []Assignment) (image.Image, error) {
	if len(as) == 0 {
		return nil, ErrNoMonitors
	}

	bounds, origin := CanvasBounds(as)
	if bounds.Empty() {
		return nil, fmt.Errorf("Monitors cover an empty area")
	}

	canvas := newCanvas(bounds)
	log.Debugf("Compositing %d monitors onto a %dx%d canvas",
		len(as), bounds.Dx(), bounds.Dy())

	for _, a := range as {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if a.Monitor.Geometry.Empty() {
			return nil, fmt.Errorf("Monitor %s has no area", a.Monitor.Name)
		}

		src, err := LoadImage(a.Path)
		if err != nil {
			return nil, err
		}

		r := a.Monitor.Geometry.Rect().Sub(origin)
		scaleInto(canvas, r, src, a.Fit, mg.Resampler)
	}

	return canvas, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	// Compositing already took a while, don't spend even longer compressing
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}
