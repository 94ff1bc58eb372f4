package wallpaperlib

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	sway "github.com/joshuarubin/go-sway"
)

// OutputSink can give each output its own image, so multi-monitor layouts
// need no composite. Wayland compositors have no root window to span one
// image across, so this is the only way they can show per-monitor
// wallpapers.
type OutputSink interface {
	Sink
	SetOutputBackgrounds(ctx context.Context, as []Assignment) error
}

type swayCommandFunc func(ctx context.Context, command string) error

func runSwayCommand(ctx context.Context, command string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return fmt.Errorf("Connecting to sway: %w", err)
	}

	replies, err := client.RunCommand(ctx, command)
	if err != nil {
		return err
	}
	for _, r := range replies {
		if !r.Success {
			return errors.New(r.Error)
		}
	}
	return nil
}

type swaySink struct {
	run swayCommandFunc
}

func (s *swaySink) Name() string { return string(DesktopSway) }

func swayMode(fit FitMode) string {
	if fit.Normalize() == FitStretch {
		return "stretch"
	}
	return "fill"
}

func swayQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (s *swaySink) setOutput(
	ctx context.Context, output string, path AbsolutePath, fit FitMode) error {

	cmd := fmt.Sprintf("output %s bg %s %s", swayQuote(output), swayQuote(path), swayMode(fit))
	log.Debugf("swaymsg %s", cmd)
	if err := s.run(ctx, cmd); err != nil {
		return &SinkApplyError{Sink: s.Name(), Path: path, Err: err}
	}
	return nil
}

func (s *swaySink) SetBackground(
	ctx context.Context, path AbsolutePath, fit FitMode) error {
	return s.setOutput(ctx, "*", path, fit)
}

func (s *swaySink) SetOutputBackgrounds(ctx context.Context, as []Assignment) error {
	for _, a := range as {
		if err := s.setOutput(ctx, a.Monitor.Name, a.Path, a.Fit); err != nil {
			return err
		}
	}
	return nil
}

// hyprpaperSink talks to a running hyprpaper through hyprctl. hyprpaper has
// no stretch mode so stretch falls back to cover.
type hyprpaperSink struct {
	run CommandRunner
}

func (s *hyprpaperSink) Name() string { return string(DesktopHyprland) }

func (s *hyprpaperSink) hyprpaper(ctx context.Context, path AbsolutePath, args ...string) error {
	args = append([]string{"hyprpaper"}, args...)
	log.Debugf("hyprctl %s", strings.Join(args, " "))

	out, err := s.run(ctx, "hyprctl", args...)
	if err == nil {
		if reply := strings.TrimSpace(out); reply != "" && reply != "ok" {
			err = errors.New("hyprpaper refused the request")
		}
	}
	if err != nil {
		return &SinkApplyError{Sink: s.Name(), Path: path, Output: out, Err: err}
	}
	return nil
}

func (s *hyprpaperSink) setOutput(
	ctx context.Context, output string, path AbsolutePath, fit FitMode) error {

	if fit.Normalize() == FitStretch {
		log.Warnf("hyprpaper cannot stretch %s, covering %s instead", path, output)
	}

	if err := s.hyprpaper(ctx, path, "preload", path); err != nil {
		return err
	}
	return s.hyprpaper(ctx, path, "wallpaper", output+","+path)
}

func (s *hyprpaperSink) unloadUnused(ctx context.Context) {
	if err := s.hyprpaper(ctx, "", "unload", "unused"); err != nil {
		log.Debugf("Unloading unused wallpapers: %v", err)
	}
}

// An empty output name applies to every monitor.
func (s *hyprpaperSink) SetBackground(
	ctx context.Context, path AbsolutePath, fit FitMode) error {

	if err := s.setOutput(ctx, "", path, fit); err != nil {
		return err
	}
	s.unloadUnused(ctx)
	return nil
}

func (s *hyprpaperSink) SetOutputBackgrounds(ctx context.Context, as []Assignment) error {
	for _, a := range as {
		if err := s.setOutput(ctx, a.Monitor.Name, a.Path, a.Fit); err != nil {
			return err
		}
	}
	s.unloadUnused(ctx)
	return nil
}
