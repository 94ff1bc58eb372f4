package wallpaperlib

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func fakeEnv(env map[string]string) func(string) string {
	return func(k string) string {
		return env[k]
	}
}

func TestValidateDefaults(t *testing.T) {
	home := t.TempDir()
	c := &Config{}

	err := c.validate(fakeEnv(map[string]string{
		"HOME":            home,
		"XDG_CONFIG_HOME": filepath.Join(home, "conf"),
		"XDG_RUNTIME_DIR": filepath.Join(home, "run"),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Join(home, ".cache", "spanwall"); c.CacheDirectory != want {
		t.Errorf("expected cache dir %s, got %s", want, c.CacheDirectory)
	}
	if want := filepath.Join(home, "conf", "spanwall", "monitors.toml"); c.StateFile != want {
		t.Errorf("expected state file %s, got %s", want, c.StateFile)
	}
	if want := filepath.Join(home, ".local", "share", "spanwall"); c.DatabaseDir != want {
		t.Errorf("expected database dir %s, got %s", want, c.DatabaseDir)
	}
	if want := filepath.Join(home, "run", "spanwall.sock"); c.Socket != want {
		t.Errorf("expected socket %s, got %s", want, c.Socket)
	}
	if c.Fit() != FitFill || c.ResamplerMode() != CatmullRom {
		t.Errorf("unexpected defaults %s %s", c.Fit(), c.ResamplerMode())
	}
	if !reflect.DeepEqual(c.ImageFileExtensions, defaultExtensions) {
		t.Errorf("unexpected extensions %v", c.ImageFileExtensions)
	}
}

func TestValidateCanonicalizes(t *testing.T) {
	home := t.TempDir()
	c := &Config{
		CacheDirectory:       "~/wallcache",
		WallpaperDirectories: []string{"~/walls", "/srv/walls"},
		ImageFileExtensions:  []string{"PNG", ".JpG"},
		FitMode:              "Stretched",
		Resampler:            "lanczos",
	}

	if err := c.validate(fakeEnv(map[string]string{"HOME": home})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Join(home, "wallcache"); c.CacheDirectory != want {
		t.Errorf("expected %s, got %s", want, c.CacheDirectory)
	}
	if want := []string{filepath.Join(home, "walls"), "/srv/walls"}; !reflect.DeepEqual(c.WallpaperDirectories, want) {
		t.Errorf("expected %v, got %v", want, c.WallpaperDirectories)
	}
	if want := []string{".png", ".jpg"}; !reflect.DeepEqual(c.ImageFileExtensions, want) {
		t.Errorf("expected %v, got %v", want, c.ImageFileExtensions)
	}
	if c.Fit() != FitStretch || c.ResamplerMode() != Lanczos {
		t.Errorf("unexpected modes %s %s", c.Fit(), c.ResamplerMode())
	}
}

func TestDefaultCacheDirFlatpak(t *testing.T) {
	rt := t.TempDir()
	writeFile(t, rt, "flatpak-info", "[Application]\nname=org.example.Spanwall\n")

	got := DefaultCacheDir(fakeEnv(map[string]string{
		"HOME":            "/home/user",
		"XDG_RUNTIME_DIR": rt,
		"XDG_CACHE_HOME":  "/home/user/.var/app/org.example.Spanwall/cache",
	}))
	if want := "/home/user/.var/app/org.example.Spanwall/cache/spanwall"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got = DefaultCacheDir(fakeEnv(map[string]string{
		"HOME":            "/home/user",
		"XDG_RUNTIME_DIR": t.TempDir(),
	}))
	if want := "/home/user/.cache/spanwall"; got != want {
		t.Errorf("expected %s outside flatpak, got %s", want, got)
	}
}

func TestValidateErrors(t *testing.T) {
	home := t.TempDir()
	notDir := writeFile(t, home, "file", "")

	tcs := map[string]Config{
		"fit":           {FitMode: "tile"},
		"resampler":     {Resampler: "bicubic"},
		"desktop":       {Desktop: "kde"},
		"backend":       {Backend: "wayland"},
		"static":        {Backend: "static"},
		"monitor name":  {Monitors: []StaticMonitor{{Width: 10, Height: 10}}},
		"monitor area":  {Monitors: []StaticMonitor{{Name: "A", Width: 10}}},
		"cache not dir": {CacheDirectory: notDir},
	}

	for name, c := range tcs {
		c := c
		if err := c.validate(fakeEnv(map[string]string{"HOME": home})); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestMonitorBackend(t *testing.T) {
	c := &Config{Monitors: []StaticMonitor{{Name: "A", Width: 1920, Height: 1080}}}
	b, err := c.MonitorBackend(fakeEnv(map[string]string{"DISPLAY": ":0"}))
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "static" {
		t.Errorf("configured monitors should use the static backend, got %s", b.Name())
	}

	c = &Config{Backend: "X11"}
	b, err = c.MonitorBackend(fakeEnv(map[string]string{"SWAYSOCK": "/s"}))
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "x11" {
		t.Errorf("the configured backend should win, got %s", b.Name())
	}

	c = &Config{}
	if _, err = c.MonitorBackend(fakeEnv(nil)); err == nil {
		t.Errorf("expected an error with nothing to detect")
	}
}

func TestResolveDesktop(t *testing.T) {
	c := &Config{Desktop: "Mate"}
	if d := c.ResolveDesktop(fakeEnv(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"})); d != DesktopMate {
		t.Errorf("the configured desktop should win, got %s", d)
	}

	c = &Config{}
	if d := c.ResolveDesktop(fakeEnv(map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"})); d != DesktopGnome {
		t.Errorf("expected gnome, got %s", d)
	}
	if d := c.ResolveDesktop(fakeEnv(nil)); d != DesktopFeh {
		t.Errorf("expected feh without any hints, got %s", d)
	}
}

func TestBackendAndSinkAgree(t *testing.T) {
	tcs := []struct {
		env     map[string]string
		backend string
		desktop Desktop
	}{
		{
			map[string]string{"SWAYSOCK": "/run/sway.sock", "DISPLAY": ":0", "XDG_CURRENT_DESKTOP": "sway"},
			"sway", DesktopSway,
		},
		{
			map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc", "XDG_CURRENT_DESKTOP": "GNOME"},
			"hyprland", DesktopHyprland,
		},
		{
			map[string]string{"DISPLAY": ":0", "XDG_CURRENT_DESKTOP": "X-Cinnamon"},
			"x11", DesktopCinnamon,
		},
	}

	for _, tc := range tcs {
		c := &Config{}
		b, err := c.MonitorBackend(fakeEnv(tc.env))
		if err != nil {
			t.Fatal(err)
		}
		if b.Name() != tc.backend {
			t.Errorf("%v: expected backend %s, got %s", tc.env, tc.backend, b.Name())
		}
		if d := c.ResolveDesktop(fakeEnv(tc.env)); d != tc.desktop {
			t.Errorf("%v: expected desktop %s, got %s", tc.env, tc.desktop, d)
		}
	}

	c := &Config{Backend: "hyprland"}
	if d := c.ResolveDesktop(fakeEnv(nil)); d != DesktopHyprland {
		t.Errorf("a configured backend should pick its sink, got %s", d)
	}
}

func TestStaticMonitors(t *testing.T) {
	c := &Config{Monitors: []StaticMonitor{{Name: "L", X: -100, Y: 5, Width: 100, Height: 50}}}
	ms := c.StaticMonitors()
	if len(ms) != 1 || ms[0].Name != "L" || ms[0].Geometry != (Geometry{-100, 5, 100, 50}) {
		t.Errorf("unexpected monitors %+v", ms)
	}
	if !strings.Contains(ms[0].Geometry.String(), "100x50-100+5") {
		t.Errorf("unexpected geometry string %s", ms[0].Geometry)
	}
}
