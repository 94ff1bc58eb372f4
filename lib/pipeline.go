package wallpaperlib

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Pipeline takes resolved assignments to a background on screen.
type Pipeline struct {
	Cache *RenderCache
	Sink  Sink
}

type Result struct {
	Path AbsolutePath
	Fit  FitMode
	// False when a single monitor's image was used as is
	Composite bool
	CacheHit  bool
	// Each output was given its own image by an OutputSink. Path is unset.
	PerOutput bool
}

// Render produces the image the sink should show without applying it. A
// single monitor never touches the compositor or the cache.
func (p *Pipeline) Render(ctx context.Context, as []Assignment) (Result, error) {
	resolved, err := resolveAssignments(as)
	if err != nil {
		return Result{}, err
	}
	return p.render(ctx, resolved)
}

// Every monitor needs an image, paths become absolute, and fits normalized.
func resolveAssignments(as []Assignment) ([]Assignment, error) {
	if len(as) == 0 {
		return nil, ErrNoMonitors
	}

	resolved := make([]Assignment, len(as))
	missing := []string{}
	for i, a := range as {
		if a.Path == "" {
			missing = append(missing, a.Monitor.Name)
			continue
		}

		abs, err := filepath.Abs(a.Path)
		if err != nil {
			return nil, err
		}
		a.Path = abs
		a.Fit = a.Fit.Normalize()
		resolved[i] = a
	}
	if len(missing) != 0 {
		return nil, &MissingWallpaperError{Monitors: missing}
	}
	return resolved, nil
}

func (p *Pipeline) render(ctx context.Context, resolved []Assignment) (Result, error) {
	if len(resolved) == 1 {
		return Result{Path: resolved[0].Path, Fit: resolved[0].Fit}, nil
	}

	path, hit, err := p.Cache.RenderOrReuse(ctx, resolved)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Fit: FitSpanned, Composite: true, CacheHit: hit}, nil
}

// Apply renders if needed and hands the result to the sink. Sinks that can
// set each output themselves get the images directly.
func (p *Pipeline) Apply(ctx context.Context, as []Assignment) (Result, error) {
	resolved, err := resolveAssignments(as)
	if err != nil {
		return Result{}, err
	}

	if outs, ok := p.Sink.(OutputSink); ok && len(resolved) > 1 {
		log.Infof("Setting %s backgrounds on %d outputs", p.Sink.Name(), len(resolved))
		res := Result{PerOutput: true}
		return res, outs.SetOutputBackgrounds(ctx, resolved)
	}

	res, err := p.render(ctx, resolved)
	if err != nil {
		return res, err
	}

	log.Infof("Setting %s background to %s (%s)", p.Sink.Name(), res.Path, res.Fit)
	if err = p.Sink.SetBackground(ctx, res.Path, res.Fit); err != nil {
		return res, err
	}
	return res, nil
}
