package wallpaperlib

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// MonitorBackend reads the active outputs from one kind of display server.
// Order and duplicates don't matter, the Registry takes care of both.
type MonitorBackend interface {
	Name() string
	Outputs(ctx context.Context) ([]Monitor, error)
}

type BackendKind string

const (
	BackendX11      BackendKind = "x11"
	BackendSway     BackendKind = "sway"
	BackendHyprland BackendKind = "hyprland"
	BackendStatic   BackendKind = "static"
)

func ParseBackendKind(s string) (BackendKind, error) {
	switch k := BackendKind(strings.ToLower(strings.TrimSpace(s))); k {
	case BackendX11, BackendSway, BackendHyprland, BackendStatic:
		return k, nil
	}
	return "", fmt.Errorf("Unknown monitor backend [%s]", s)
}

// DetectBackend guesses the display server from the environment.
func DetectBackend(getenv func(string) string) (BackendKind, error) {
	switch {
	case getenv("SWAYSOCK") != "":
		return BackendSway, nil
	case getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
		return BackendHyprland, nil
	case getenv("DISPLAY") != "":
		return BackendX11, nil
	}
	return "", fmt.Errorf(
		"Could not detect the display server, set Backend in the config")
}

// Registry turns raw outputs into the stable monitor list everything else
// works from.
type Registry struct {
	backend MonitorBackend
}

func NewRegistry(b MonitorBackend) *Registry {
	return &Registry{backend: b}
}

func (r *Registry) Backend() string {
	return r.backend.Name()
}

// ListMonitors returns the active monitors in canonical order with mirrored
// outputs merged. Getting no monitors at all is an error.
func (r *Registry) ListMonitors(ctx context.Context) ([]Monitor, error) {
	outs, err := r.backend.Outputs(ctx)
	if err != nil {
		return nil, &MonitorQueryError{Backend: r.backend.Name(), Err: err}
	}

	ms := mergeMirrored(outs)
	if len(ms) == 0 {
		return nil, &MonitorQueryError{Backend: r.backend.Name(), Err: ErrNoMonitors}
	}

	SortMonitors(ms)
	return ms, nil
}

// Mirrored outputs share a geometry and would stack two images on the same
// region. The first one seen keeps its name.
func mergeMirrored(outs []Monitor) []Monitor {
	ms := make([]Monitor, 0, len(outs))
	byGeometry := make(map[Geometry]string, len(outs))
	names := make(map[string]bool, len(outs))

	for _, m := range outs {
		if m.Geometry.Empty() {
			log.Debugf("Skipping output %s with no area", m.Name)
			continue
		}

		if first, ok := byGeometry[m.Geometry]; ok {
			log.Debugf("Output %s mirrors %s, merging them", m.Name, first)
			continue
		}

		if names[m.Name] {
			log.Warnf("Duplicate output name %s at %s, ignoring it", m.Name, m.Geometry)
			continue
		}

		byGeometry[m.Geometry] = m.Name
		names[m.Name] = true
		ms = append(ms, m)
	}

	return ms
}

// StaticBackend serves a fixed list, for configured layouts and tests.
type StaticBackend struct {
	Monitors []Monitor
}

func (b *StaticBackend) Name() string { return string(BackendStatic) }

func (b *StaticBackend) Outputs(ctx context.Context) ([]Monitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Monitor, len(b.Monitors))
	copy(out, b.Monitors)
	return out, nil
}
