package ipc

import (
	"context"

	lib "github.com/awused/spanwall/lib"
)

// Service is what the daemon exposes over the socket.
type Service interface {
	Monitors(ctx context.Context) ([]lib.Monitor, error)
	Apply(ctx context.Context) (lib.Result, error)
	LastResult() (lib.Result, bool)
}

type MonitorResponse struct {
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Wallpaper string `json:"wallpaper,omitempty"`
	Fit       string `json:"fit"`
}

type ApplyResponse struct {
	Path      string `json:"path"`
	Fit       string `json:"fit"`
	Composite bool   `json:"composite"`
	CacheHit  bool   `json:"cache_hit"`
	PerOutput bool   `json:"per_output,omitempty"`
}

type StatusResponse struct {
	Status  string         `json:"status"`
	PID     int            `json:"pid"`
	Socket  string         `json:"socket"`
	Cache   string         `json:"cache"`
	Backend string         `json:"backend"`
	Sink    string         `json:"sink"`
	Last    *ApplyResponse `json:"last,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ToMonitorResponses is the JSON form of monitors shared by the socket and
// the command line.
func ToMonitorResponses(ms []lib.Monitor) []MonitorResponse {
	out := make([]MonitorResponse, len(ms))
	for i, m := range ms {
		out[i] = ToMonitorResponse(m)
	}
	return out
}

func ToMonitorResponse(m lib.Monitor) MonitorResponse {
	return MonitorResponse{
		Name:      m.Name,
		X:         m.Geometry.X,
		Y:         m.Geometry.Y,
		Width:     m.Geometry.Width,
		Height:    m.Geometry.Height,
		Wallpaper: m.Wallpaper,
		Fit:       string(m.Fit),
	}
}

func toApplyResponse(r lib.Result) ApplyResponse {
	return ApplyResponse{
		Path:      r.Path,
		Fit:       string(r.Fit),
		Composite: r.Composite,
		CacheHit:  r.CacheHit,
		PerOutput: r.PerOutput,
	}
}
