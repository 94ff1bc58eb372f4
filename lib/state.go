package wallpaperlib

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

type MonitorState struct {
	Wallpaper string
	// Empty means the configured FitMode
	Fit string `toml:",omitempty"`
}

// State remembers the last wallpaper assigned to each monitor name across
// sessions, along with favorite wallpapers and which configured directories
// are switched off. The pipeline never sees it, only the resolved
// assignments.
type State struct {
	Favorites []AbsolutePath `toml:",omitempty"`
	// Configured WallpaperDirectories left out of listings and random picks
	DisabledDirectories []string `toml:",omitempty"`
	Monitors            map[string]MonitorState

	path string
}

// LoadState reads path, treating a missing file as an empty state.
func LoadState(path string) (*State, error) {
	s := &State{Monitors: map[string]MonitorState{}, path: path}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return nil, err
	}

	if _, err = toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("Error reading state file [%s]: %w", path, err)
	}
	if s.Monitors == nil {
		s.Monitors = map[string]MonitorState{}
	}
	return s, nil
}

func (s *State) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	err = toml.NewEncoder(f).Encode(s)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("Error writing state file [%s]: %w", s.path, err)
	}
	return nil
}

// Sync fills in each monitor's remembered wallpaper and fit. Monitors seen
// for the first time are recorded with no wallpaper.
func (s *State) Sync(ms []Monitor, def FitMode) []Monitor {
	out := make([]Monitor, len(ms))
	for i, m := range ms {
		ls, ok := s.Monitors[m.Name]
		if !ok {
			s.Monitors[m.Name] = MonitorState{}
		}

		m.Wallpaper = ls.Wallpaper
		m.Fit = def
		if ls.Fit != "" {
			fit, err := ParseFitMode(ls.Fit)
			if err != nil {
				log.Warnf("Ignoring fit for monitor %s: %s", m.Name, err)
			} else {
				m.Fit = fit
			}
		}
		out[i] = m
	}
	return out
}

// SetWallpaper records path for the named monitor, keeping its fit.
func (s *State) SetWallpaper(name string, path AbsolutePath) {
	ms := s.Monitors[name]
	ms.Wallpaper = path
	s.Monitors[name] = ms
}

// SetFit records fit for the named monitor, keeping its wallpaper. An empty
// fit goes back to the configured default.
func (s *State) SetFit(name string, fit FitMode) {
	ms := s.Monitors[name]
	ms.Fit = string(fit)
	s.Monitors[name] = ms
}

func (s *State) IsFavorite(path AbsolutePath) bool {
	return slices.Contains(s.Favorites, filepath.Clean(path))
}

// AddFavorite reports false when path already was a favorite.
func (s *State) AddFavorite(path AbsolutePath) bool {
	if s.IsFavorite(path) {
		return false
	}
	s.Favorites = append(s.Favorites, filepath.Clean(path))
	return true
}

// RemoveFavorite reports false when path was not a favorite.
func (s *State) RemoveFavorite(path AbsolutePath) bool {
	i := slices.Index(s.Favorites, filepath.Clean(path))
	if i < 0 {
		return false
	}
	s.Favorites = slices.Delete(s.Favorites, i, i+1)
	return true
}

func (s *State) DirectoryEnabled(dir string) bool {
	return !slices.Contains(s.DisabledDirectories, filepath.Clean(dir))
}

func (s *State) SetDirectoryEnabled(dir string, enabled bool) {
	dir = filepath.Clean(dir)
	i := slices.Index(s.DisabledDirectories, dir)
	switch {
	case enabled && i >= 0:
		s.DisabledDirectories = slices.Delete(s.DisabledDirectories, i, i+1)
	case !enabled && i < 0:
		s.DisabledDirectories = append(s.DisabledDirectories, dir)
	}
}

// EnabledDirectories filters dirs down to the ones not switched off.
func (s *State) EnabledDirectories(dirs []string) []string {
	out := []string{}
	for _, d := range dirs {
		if s.DirectoryEnabled(d) {
			out = append(out, d)
		}
	}
	return out
}
