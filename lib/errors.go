package wallpaperlib

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoMonitors = errors.New("No monitors detected")

// MonitorQueryError means no usable geometry could be read from the display
// server. Nothing else in the pipeline can run without monitors.
type MonitorQueryError struct {
	Backend string
	Err     error
}

func (e *MonitorQueryError) Error() string {
	return fmt.Sprintf("Querying monitors with %s failed: %s", e.Backend, e.Err)
}

func (e *MonitorQueryError) Unwrap() error { return e.Err }

// ImageDecodeError names the source image that could not be read.
type ImageDecodeError struct {
	Path AbsolutePath
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("Could not decode image [%s]: %s", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

type CacheWriteError struct {
	Path AbsolutePath
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("Could not write cached wallpaper [%s]: %s", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

type SinkApplyError struct {
	Sink   string
	Path   AbsolutePath
	Output string
	Err    error
}

func (e *SinkApplyError) Error() string {
	msg := fmt.Sprintf("Setting [%s] as the %s background failed: %s", e.Path, e.Sink, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *SinkApplyError) Unwrap() error { return e.Err }

type MissingWallpaperError struct {
	Monitors []string
}

func (e *MissingWallpaperError) Error() string {
	return fmt.Sprintf(
		"Set all of the wallpapers before applying, missing: %s",
		strings.Join(e.Monitors, ", "))
}
