package wallpaperlib

import (
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "monitors.toml")

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("missing state should load empty: %v", err)
	}
	if len(s.Monitors) != 0 {
		t.Errorf("expected an empty state, got %v", s.Monitors)
	}

	s.SetWallpaper("DP-1", "/walls/a.png")
	s.SetWallpaper("DP-2", "/walls/b.png")
	s.SetFit("DP-2", FitStretch)
	s.AddFavorite("/walls/b.png")
	s.SetDirectoryEnabled("/walls/old", false)
	if err := s.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := loaded.Monitors["DP-1"]; got.Wallpaper != "/walls/a.png" || got.Fit != "" {
		t.Errorf("unexpected DP-1 state %+v", got)
	}
	if got := loaded.Monitors["DP-2"]; got.Fit != "stretch" {
		t.Errorf("unexpected DP-2 state %+v", got)
	}
	if !loaded.IsFavorite("/walls/b.png") || loaded.DirectoryEnabled("/walls/old") {
		t.Errorf("favorites or directories were lost: %+v", loaded)
	}
	if files := listDir(t, filepath.Dir(path)); len(files) != 1 {
		t.Errorf("expected only the state file, got %v", files)
	}
}

func TestStateSync(t *testing.T) {
	s, _ := LoadState(filepath.Join(t.TempDir(), "monitors.toml"))
	s.SetWallpaper("DP-1", "/walls/a.png")
	s.SetFit("DP-1", FitStretch)
	s.Monitors["DP-3"] = MonitorState{Wallpaper: "/walls/c.png", Fit: "sideways"}

	ms := s.Sync([]Monitor{
		{Name: "DP-1", Geometry: Geometry{0, 0, 10, 10}},
		{Name: "DP-2", Geometry: Geometry{10, 0, 10, 10}},
		{Name: "DP-3", Geometry: Geometry{20, 0, 10, 10}},
	}, FitZoom)

	if ms[0].Wallpaper != "/walls/a.png" || ms[0].Fit != FitStretch {
		t.Errorf("unexpected DP-1 %+v", ms[0])
	}
	if ms[1].Wallpaper != "" || ms[1].Fit != FitZoom {
		t.Errorf("unexpected DP-2 %+v", ms[1])
	}
	if _, ok := s.Monitors["DP-2"]; !ok {
		t.Errorf("new monitor was not recorded")
	}
	// Invalid fits fall back to the default
	if ms[2].Fit != FitZoom {
		t.Errorf("unexpected DP-3 fit %s", ms[2].Fit)
	}
}

func TestLoadStateInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "monitors.toml", "this = [is not toml")
	if _, err := LoadState(path); err == nil {
		t.Errorf("expected an error for an invalid state file")
	}
}

func TestStateWallpaperKeepsFit(t *testing.T) {
	s, _ := LoadState(filepath.Join(t.TempDir(), "monitors.toml"))

	s.SetFit("DP-1", FitStretch)
	s.SetWallpaper("DP-1", "/walls/a.png")
	s.SetWallpaper("DP-1", "/walls/b.png")
	if got := s.Monitors["DP-1"]; got.Wallpaper != "/walls/b.png" || got.Fit != "stretch" {
		t.Errorf("reassigning lost the fit: %+v", got)
	}

	s.SetFit("DP-1", "")
	if got := s.Monitors["DP-1"]; got.Wallpaper != "/walls/b.png" || got.Fit != "" {
		t.Errorf("resetting the fit lost the wallpaper: %+v", got)
	}

	ms := s.Sync([]Monitor{{Name: "DP-1"}}, FitZoom)
	if ms[0].Fit != FitZoom {
		t.Errorf("expected the default fit after a reset, got %s", ms[0].Fit)
	}
}

func TestStateFavorites(t *testing.T) {
	s, _ := LoadState(filepath.Join(t.TempDir(), "monitors.toml"))

	if !s.AddFavorite("/walls/a.png") || s.AddFavorite("/walls/./a.png") {
		t.Errorf("expected one favorite to be added once")
	}
	s.AddFavorite("/walls/b.png")
	if !s.RemoveFavorite("/walls/a.png") || s.RemoveFavorite("/walls/a.png") {
		t.Errorf("expected one favorite to be removed once")
	}
	if len(s.Favorites) != 1 || s.Favorites[0] != "/walls/b.png" {
		t.Errorf("unexpected favorites %v", s.Favorites)
	}
}

func TestStateDirectories(t *testing.T) {
	s, _ := LoadState(filepath.Join(t.TempDir(), "monitors.toml"))
	dirs := []string{"/a", "/b", "/c"}

	s.SetDirectoryEnabled("/b/", false)
	s.SetDirectoryEnabled("/b", false)
	if got := s.EnabledDirectories(dirs); len(got) != 2 || got[1] != "/c" {
		t.Errorf("unexpected enabled directories %v", got)
	}
	if len(s.DisabledDirectories) != 1 {
		t.Errorf("directory disabled twice: %v", s.DisabledDirectories)
	}

	s.SetDirectoryEnabled("/b", true)
	if got := s.EnabledDirectories(dirs); len(got) != 3 {
		t.Errorf("expected every directory back, got %v", got)
	}
}
