package wallpaperlib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Sink sets an image as the desktop background. It does no scaling of its
// own; composites already have every monitor positioned.
type Sink interface {
	Name() string
	SetBackground(ctx context.Context, path AbsolutePath, fit FitMode) error
}

// CommandRunner runs an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

func ExecRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

type Desktop string

const (
	DesktopGnome    Desktop = "gnome"
	DesktopMate     Desktop = "mate"
	DesktopCinnamon Desktop = "cinnamon"
	DesktopFeh      Desktop = "feh"
	DesktopSway     Desktop = "sway"
	// Drives hyprpaper through hyprctl
	DesktopHyprland Desktop = "hyprland"
)

func ParseDesktop(s string) (Desktop, error) {
	switch d := Desktop(strings.ToLower(strings.TrimSpace(s))); d {
	case DesktopGnome, DesktopMate, DesktopCinnamon, DesktopFeh,
		DesktopSway, DesktopHyprland:
		return d, nil
	}
	return "", fmt.Errorf("Unsupported desktop [%s]", s)
}

// DetectDesktop maps an XDG_CURRENT_DESKTOP value, which can be a colon
// separated list, to a sink. Anything unrecognized gets feh.
func DetectDesktop(xdgCurrentDesktop string) Desktop {
	for _, d := range strings.Split(strings.ToLower(xdgCurrentDesktop), ":") {
		switch {
		case strings.Contains(d, "mate"):
			return DesktopMate
		case strings.Contains(d, "cinnamon"):
			return DesktopCinnamon
		case strings.Contains(d, "gnome"), d == "unity", d == "budgie", d == "pantheon":
			return DesktopGnome
		case d == "sway":
			return DesktopSway
		case strings.Contains(d, "hyprland"):
			return DesktopHyprland
		}
	}
	return DesktopFeh
}

func NewSink(d Desktop, run CommandRunner) (Sink, error) {
	if run == nil {
		run = ExecRunner
	}

	switch d {
	case DesktopGnome:
		return newGsettingsSink(d, "org.gnome.desktop.background", run,
			[]string{"picture-uri"}, "picture-uri-dark"), nil
	case DesktopMate:
		s := newGsettingsSink(d, "org.mate.background", run,
			[]string{"picture-filename"})
		s.fileURI = false
		return s, nil
	case DesktopCinnamon:
		return newGsettingsSink(d, "org.cinnamon.desktop.background", run,
			[]string{"picture-uri"}), nil
	case DesktopFeh:
		return &fehSink{run: run}, nil
	case DesktopSway:
		return &swaySink{run: runSwayCommand}, nil
	case DesktopHyprland:
		return &hyprpaperSink{run: run}, nil
	}
	return nil, fmt.Errorf("Unsupported desktop [%s]", d)
}

type gsettingsSink struct {
	name   string
	schema string
	keys   []string
	// Only written when the schema has them, like picture-uri-dark which
	// older GNOME releases lack
	optionalKeys []string
	// Whether keys hold file:// URIs instead of plain paths
	fileURI bool
	run     CommandRunner

	getenv func(string) string
	setenv func(string, string) error
	uid    string
}

func newGsettingsSink(
	d Desktop, schema string, run CommandRunner,
	keys []string, optional ...string) *gsettingsSink {

	return &gsettingsSink{
		name:         string(d),
		schema:       schema,
		keys:         keys,
		optionalKeys: optional,
		fileURI:      true,
		run:          run,
		getenv:       os.Getenv,
		setenv:       os.Setenv,
		uid:          strconv.Itoa(os.Getuid()),
	}
}

func (s *gsettingsSink) Name() string { return s.name }

func pictureOption(fit FitMode) string {
	switch fit.Normalize() {
	case FitStretch:
		return "stretched"
	case FitSpanned:
		return "spanned"
	}
	return "zoom"
}

func fileURI(path AbsolutePath) string {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

// gsettings silently writes to a throwaway backend when it can't reach the
// session bus, which happens when run from cron or a bare tty.
func (s *gsettingsSink) setDBusAddress() error {
	if s.getenv(dbusAddress) != "" {
		return nil
	}
	if s.uid == "" {
		return errors.New("No $UID set")
	}
	addr := "unix:path=/run/user/" + s.uid + "/bus"
	log.Debugf("Setting %s to %s", dbusAddress, addr)
	return s.setenv(dbusAddress, addr)
}

// Returns the optional keys present in the schema. Failing to list them
// only drops the optional keys.
func (s *gsettingsSink) availableOptionalKeys(ctx context.Context) []string {
	if len(s.optionalKeys) == 0 {
		return nil
	}

	out, err := s.run(ctx, "gsettings", "list-keys", s.schema)
	if err != nil {
		log.Debugf("Could not list keys of %s: %v %s", s.schema, err, out)
		return nil
	}

	present := make(map[string]bool)
	for _, k := range strings.Fields(out) {
		present[k] = true
	}

	keys := []string{}
	for _, k := range s.optionalKeys {
		if present[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *gsettingsSink) SetBackground(
	ctx context.Context, path AbsolutePath, fit FitMode) error {

	if err := s.setDBusAddress(); err != nil {
		return &SinkApplyError{Sink: s.name, Path: path, Err: err}
	}

	value := path
	if s.fileURI {
		value = fileURI(path)
	}

	// Options first so the new picture is never drawn with the old mode
	calls := [][]string{{"set", s.schema, "picture-options", pictureOption(fit)}}
	keys := append(append([]string{}, s.keys...), s.availableOptionalKeys(ctx)...)
	for _, k := range keys {
		calls = append(calls, []string{"set", s.schema, k, value})
	}

	for _, args := range calls {
		log.Debugf("gsettings %s", strings.Join(args, " "))
		out, err := s.run(ctx, "gsettings", args...)
		if err != nil {
			return &SinkApplyError{Sink: s.name, Path: path, Output: out, Err: err}
		}
	}
	return nil
}

type fehSink struct {
	run CommandRunner
}

func (s *fehSink) Name() string { return string(DesktopFeh) }

func (s *fehSink) SetBackground(
	ctx context.Context, path AbsolutePath, fit FitMode) error {

	var args []string
	switch fit.Normalize() {
	case FitSpanned:
		// One image across the whole root window instead of one per screen
		args = []string{"--no-xinerama", "--bg-fill"}
	case FitStretch:
		args = []string{"--bg-scale"}
	default:
		args = []string{"--bg-fill"}
	}
	args = append(args, path)

	log.Debugf("feh %s", strings.Join(args, " "))
	out, err := s.run(ctx, "feh", args...)
	if err != nil {
		return &SinkApplyError{Sink: s.Name(), Path: path, Output: out, Err: err}
	}
	return nil
}
