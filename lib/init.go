package wallpaperlib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awused/awconf"
)

const appName = "spanwall"

// StaticMonitor describes a monitor by hand, for setups where the display
// server can't be queried.
type StaticMonitor struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

type Config struct {
	CacheDirectory       string
	StateFile            string
	DatabaseDir          string
	WallpaperDirectories []string
	ImageFileExtensions  []string
	FitMode              string
	Resampler            string
	Desktop              string
	Backend              string
	Socket               string
	LogFile              string
	Monitors             []StaticMonitor

	fit       FitMode
	resampler Resampler
}

// Init loads spanwall.toml from the usual config locations.
func Init() (*Config, error) {
	c := &Config{}

	if err := awconf.LoadConfig(appName, c); err != nil {
		return nil, err
	}

	if err := c.validate(os.Getenv); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Fit() FitMode {
	return c.fit
}

func (c *Config) ResamplerMode() Resampler {
	return c.resampler
}

// StaticMonitors converts the configured layout, if there is one.
func (c *Config) StaticMonitors() []Monitor {
	ms := make([]Monitor, len(c.Monitors))
	for i, m := range c.Monitors {
		ms[i] = Monitor{
			Name:     m.Name,
			Geometry: Geometry{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		}
	}
	return ms
}

func homeDir(getenv func(string) string) string {
	return getenv("HOME")
}

// Expands a leading ~ the way a shell would
func canonicalPath(path string, getenv func(string) string) string {
	if path == "~" {
		return homeDir(getenv)
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(getenv), path[2:])
	}
	return path
}

func xdgDir(getenv func(string) string, env, fallback string) string {
	if d := getenv(env); d != "" {
		return d
	}
	return filepath.Join(homeDir(getenv), fallback)
}

// DefaultCacheDir follows the sandbox: inside flatpak the cache must live in
// the per-app XDG_CACHE_HOME.
func DefaultCacheDir(getenv func(string) string) string {
	if rt := getenv("XDG_RUNTIME_DIR"); rt != "" {
		if fileExists(filepath.Join(rt, "flatpak-info")) {
			return filepath.Join(getenv("XDG_CACHE_HOME"), appName)
		}
	}
	return filepath.Join(homeDir(getenv), ".cache", appName)
}

func DefaultSocket(getenv func(string) string) string {
	dir := getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appName+".sock")
}

var defaultExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func (c *Config) validate(getenv func(string) string) error {
	var err error

	if c.CacheDirectory == "" {
		c.CacheDirectory = DefaultCacheDir(getenv)
	}
	c.CacheDirectory = canonicalPath(c.CacheDirectory, getenv)

	// Created on first use, but must not be something else already
	fi, err := os.Stat(c.CacheDirectory)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("CacheDirectory [%s] is not a directory", c.CacheDirectory)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(
			"Error calling os.Stat on CacheDirectory [%s]: %s", c.CacheDirectory, err)
	}

	if c.StateFile == "" {
		c.StateFile = filepath.Join(
			xdgDir(getenv, "XDG_CONFIG_HOME", ".config"), appName, "monitors.toml")
	}
	c.StateFile = canonicalPath(c.StateFile, getenv)

	if c.DatabaseDir == "" {
		c.DatabaseDir = filepath.Join(
			xdgDir(getenv, "XDG_DATA_HOME", filepath.Join(".local", "share")), appName)
	}
	c.DatabaseDir = canonicalPath(c.DatabaseDir, getenv)

	if len(c.WallpaperDirectories) == 0 {
		c.WallpaperDirectories = []string{
			filepath.Join(homeDir(getenv), "Pictures"),
			"/usr/share/backgrounds",
		}
	}
	for i, d := range c.WallpaperDirectories {
		c.WallpaperDirectories[i] = canonicalPath(d, getenv)
	}

	if len(c.ImageFileExtensions) == 0 {
		c.ImageFileExtensions = append([]string(nil), defaultExtensions...)
	}
	for i, e := range c.ImageFileExtensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		c.ImageFileExtensions[i] = e
	}

	if c.fit, err = ParseFitMode(c.FitMode); err != nil {
		return err
	}

	if c.resampler, err = ParseResampler(c.Resampler); err != nil {
		return err
	}

	if c.Desktop != "" {
		if _, err = ParseDesktop(c.Desktop); err != nil {
			return err
		}
	}

	if c.Backend != "" {
		if _, err = ParseBackendKind(c.Backend); err != nil {
			return err
		}
	}

	if BackendKind(strings.ToLower(c.Backend)) == BackendStatic && len(c.Monitors) == 0 {
		return fmt.Errorf("Backend is static but no Monitors are configured")
	}

	for _, m := range c.Monitors {
		if m.Name == "" {
			return fmt.Errorf("Configured monitor is missing a Name")
		}
		if m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("Configured monitor %s has no area", m.Name)
		}
	}

	if c.Socket == "" {
		c.Socket = DefaultSocket(getenv)
	}
	c.Socket = canonicalPath(c.Socket, getenv)

	if c.LogFile != "" {
		c.LogFile = canonicalPath(c.LogFile, getenv)
	}

	return nil
}

// MonitorBackend picks the configured backend, a static layout when monitors
// are configured, or whatever the environment points at.
func (c *Config) MonitorBackend(getenv func(string) string) (MonitorBackend, error) {
	var err error
	kind := BackendKind(strings.ToLower(c.Backend))
	if kind == "" && len(c.Monitors) > 0 {
		kind = BackendStatic
	}
	if kind == "" {
		if kind, err = DetectBackend(getenv); err != nil {
			return nil, err
		}
	}

	switch kind {
	case BackendX11:
		return &X11Backend{Display: getenv("DISPLAY")}, nil
	case BackendSway:
		return &SwayBackend{}, nil
	case BackendHyprland:
		return &HyprlandBackend{}, nil
	case BackendStatic:
		return &StaticBackend{Monitors: c.StaticMonitors()}, nil
	}
	return nil, fmt.Errorf("Unknown monitor backend [%s]", kind)
}

// ResolveDesktop decides once which sink applies backgrounds. Wayland
// compositors have no root window for the X11 sinks to draw on, so the sink
// follows the compositor whenever one is in use.
func (c *Config) ResolveDesktop(getenv func(string) string) Desktop {
	if c.Desktop != "" {
		// Already validated
		d, _ := ParseDesktop(c.Desktop)
		return d
	}

	switch BackendKind(strings.ToLower(c.Backend)) {
	case BackendSway:
		return DesktopSway
	case BackendHyprland:
		return DesktopHyprland
	}

	if getenv("SWAYSOCK") != "" {
		return DesktopSway
	}
	if getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return DesktopHyprland
	}

	if xdg := getenv("XDG_CURRENT_DESKTOP"); xdg != "" {
		return DetectDesktop(xdg)
	}

	if display := getenv("DISPLAY"); display != "" {
		wm, err := X11WindowManager(display)
		if err == nil {
			return DetectDesktop(wm)
		}
	}
	return DesktopFeh
}
