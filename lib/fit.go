package wallpaperlib

import (
	"fmt"
	"strings"
)

// FitMode is how a source image is mapped onto a monitor's rectangle.
type FitMode string

const (
	// Scale to cover the monitor and crop the overflow around the center
	FitZoom FitMode = "zoom"
	// Same as zoom, kept as its own token since it's the default
	FitFill FitMode = "fill"
	// Scale each axis independently, ignoring the aspect ratio
	FitStretch FitMode = "stretch"
	// Only used for composites that already span every monitor
	FitSpanned FitMode = "spanned"
)

func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FitFill:
		return FitFill, nil
	case FitZoom:
		return FitZoom, nil
	case FitStretch, "stretched":
		return FitStretch, nil
	}
	return "", fmt.Errorf("Unknown fit mode [%s], expected zoom, fill or stretch", s)
}

// Normalize maps the zero value to the default.
func (f FitMode) Normalize() FitMode {
	if f == "" {
		return FitFill
	}
	return f
}

func (f FitMode) covers() bool {
	f = f.Normalize()
	return f == FitZoom || f == FitFill
}
