package wallpaperlib

import (
	"context"
	"encoding/json"
	"fmt"

	sway "github.com/joshuarubin/go-sway"
)

type SwayBackend struct{}

func (b *SwayBackend) Name() string { return string(BackendSway) }

func (b *SwayBackend) Outputs(ctx context.Context) ([]Monitor, error) {
	// The client's connection lives as long as this context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("Connecting to sway: %w", err)
	}

	outs, err := client.GetOutputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("Listing sway outputs: %w", err)
	}

	monitors := make([]Monitor, 0, len(outs))
	for _, o := range outs {
		if !o.Active {
			continue
		}
		monitors = append(monitors, Monitor{
			Name: o.Name,
			Geometry: Geometry{
				X:      int(o.Rect.X),
				Y:      int(o.Rect.Y),
				Width:  int(o.Rect.Width),
				Height: int(o.Rect.Height),
			},
		})
	}
	return monitors, nil
}

type hyprMonitor struct {
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Scale     float64 `json:"scale"`
	Transform int     `json:"transform"`
	Disabled  bool    `json:"disabled"`
}

// Hyprland reports modes in physical pixels but positions in the scaled
// layout space, so sizes are converted to match the positions.
func (m hyprMonitor) geometry() Geometry {
	w, h := m.Width, m.Height
	if m.Scale > 0 {
		w = int(float64(w)/m.Scale + 0.5)
		h = int(float64(h)/m.Scale + 0.5)
	}
	// Odd transforms are rotated by 90 or 270 degrees
	if m.Transform%2 == 1 {
		w, h = h, w
	}
	return Geometry{X: m.X, Y: m.Y, Width: w, Height: h}
}

type HyprlandBackend struct {
	Run CommandRunner
}

func (b *HyprlandBackend) Name() string { return string(BackendHyprland) }

func (b *HyprlandBackend) Outputs(ctx context.Context) ([]Monitor, error) {
	run := b.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, fmt.Errorf("Running hyprctl monitors: %w", err)
	}

	return parseHyprMonitors([]byte(out))
}

func parseHyprMonitors(data []byte) ([]Monitor, error) {
	var hms []hyprMonitor
	if err := json.Unmarshal(data, &hms); err != nil {
		return nil, fmt.Errorf("Parsing hyprctl monitors: %w", err)
	}

	monitors := make([]Monitor, 0, len(hms))
	for _, hm := range hms {
		if hm.Disabled {
			continue
		}
		monitors = append(monitors, Monitor{Name: hm.Name, Geometry: hm.geometry()})
	}
	return monitors, nil
}
