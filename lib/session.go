package wallpaperlib

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Session ties the pipeline to the remembered per-monitor state. Both the
// CLI and the daemon go through it. State is read fresh for every call so a
// long running daemon never writes over changes made by the CLI.
type Session struct {
	Config   *Config
	Registry *Registry
	Pipeline *Pipeline

	mu   sync.Mutex
	last *Result
}

// NewSession resolves the monitor backend and the desktop sink once.
func NewSession(c *Config, getenv func(string) string) (*Session, error) {
	backend, err := c.MonitorBackend(getenv)
	if err != nil {
		return nil, err
	}

	sink, err := NewSink(c.ResolveDesktop(getenv), nil)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using %s monitors and the %s sink", backend.Name(), sink.Name())

	return NewSessionWith(c, backend, sink)
}

// NewSessionWith builds a session around an explicit backend and sink.
func NewSessionWith(c *Config, backend MonitorBackend, sink Sink) (*Session, error) {
	cache, err := NewRenderCache(c.CacheDirectory, NewMerger(c.ResamplerMode()))
	if err != nil {
		return nil, err
	}

	// Fail early on a broken state file
	if _, err = LoadState(c.StateFile); err != nil {
		return nil, err
	}

	return &Session{
		Config:   c,
		Registry: NewRegistry(backend),
		Pipeline: &Pipeline{Cache: cache, Sink: sink},
	}, nil
}

// Runs fn on the current state, saving afterwards when fn returns true.
func (s *Session) withState(fn func(*State) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := LoadState(s.Config.StateFile)
	if err != nil {
		return err
	}

	save, err := fn(st)
	if err != nil || !save {
		return err
	}
	return st.Save()
}

// Monitors lists the connected monitors with their remembered wallpapers.
func (s *Session) Monitors(ctx context.Context) ([]Monitor, error) {
	ms, err := s.Registry.ListMonitors(ctx)
	if err != nil {
		return nil, err
	}

	err = s.withState(func(st *State) (bool, error) {
		ms = st.Sync(ms, s.Config.Fit())
		return false, nil
	})
	return ms, err
}

// The monitor must currently be connected.
func (s *Session) updateMonitor(
	ctx context.Context, name string, fn func(*State)) error {

	ms, err := s.Registry.ListMonitors(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, m := range ms {
		if m.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("No connected monitor named [%s]", name)
	}

	return s.withState(func(st *State) (bool, error) {
		fn(st)
		return true, nil
	})
}

// Assign remembers path for the named monitor and saves the state. Any fit
// chosen earlier for the monitor is kept.
func (s *Session) Assign(ctx context.Context, name string, path AbsolutePath) error {
	return s.updateMonitor(ctx, name, func(st *State) {
		st.SetWallpaper(name, path)
	})
}

// SetFit remembers fit for the named monitor and saves the state. An empty
// fit goes back to the configured FitMode.
func (s *Session) SetFit(ctx context.Context, name string, fit FitMode) error {
	return s.updateMonitor(ctx, name, func(st *State) {
		st.SetFit(name, fit)
	})
}

// Apply shows the remembered wallpapers on every connected monitor.
func (s *Session) Apply(ctx context.Context) (Result, error) {
	ms, err := s.Registry.ListMonitors(ctx)
	if err != nil {
		return Result{}, err
	}

	err = s.withState(func(st *State) (bool, error) {
		ms = st.Sync(ms, s.Config.Fit())
		// Record monitors seen for the first time
		if err := st.Save(); err != nil {
			log.Warnf("Could not save monitor state: %s", err)
		}
		return false, nil
	})
	if err != nil {
		return Result{}, err
	}

	res, err := s.Pipeline.Apply(ctx, AssignmentsFromMonitors(ms))
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
	return res, nil
}

// LastResult is the most recent successful Apply, if there was one.
func (s *Session) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Favorites lists the favorite wallpapers.
func (s *Session) Favorites() ([]AbsolutePath, error) {
	var out []AbsolutePath
	err := s.withState(func(st *State) (bool, error) {
		out = append(out, st.Favorites...)
		return false, nil
	})
	return out, err
}

// WallpaperDirectories is the configured directories minus the disabled ones.
func (s *Session) WallpaperDirectories() ([]string, error) {
	var out []string
	err := s.withState(func(st *State) (bool, error) {
		out = st.EnabledDirectories(s.Config.WallpaperDirectories)
		return false, nil
	})
	return out, err
}
