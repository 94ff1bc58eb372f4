package wallpaperlib

import (
	"context"
	"fmt"
	"io/ioutil"
	"regexp"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/charmbracelet/log"
)

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

func connectX(display string) (*xgbutil.XUtil, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(ioutil.Discard)
	xgbutil.Logger.SetOutput(ioutil.Discard)

	return xgbutil.NewConnDisplay(trimDisplay(display))
}

// X11Backend reads CRTC geometry through RandR, falling back to Xinerama on
// servers without it.
type X11Backend struct {
	Display string
}

func (b *X11Backend) Name() string { return string(BackendX11) }

func (b *X11Backend) Outputs(ctx context.Context) ([]Monitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	X, err := connectX(b.Display)
	if err != nil {
		return nil, err
	}
	defer X.Conn().Close()

	if err = randr.Init(X.Conn()); err != nil {
		log.Debugf("RandR unavailable, trying Xinerama: %s", err)
		return xineramaOutputs(X.Conn())
	}

	return randrOutputs(X)
}

func randrOutputs(X *xgbutil.XUtil) ([]Monitor, error) {
	conn := X.Conn()
	resources, err := randr.GetScreenResources(conn, X.RootWin()).Reply()
	if err != nil {
		return nil, err
	}

	monitors := []Monitor{}
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			return nil, err
		}

		// Disabled CRTC
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		out, err := randr.GetOutputInfo(
			conn, info.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			if out.Connection != randr.ConnectionConnected {
				continue
			}
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			Name: name,
			Geometry: Geometry{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return monitors, nil
}

func xineramaOutputs(conn *xgb.Conn) ([]Monitor, error) {
	if err := xinerama.Init(conn); err != nil {
		return nil, err
	}

	reply, err := xinerama.QueryScreens(conn).Reply()
	if err != nil {
		return nil, err
	}

	monitors := make([]Monitor, 0, len(reply.ScreenInfo))
	for i, s := range reply.ScreenInfo {
		monitors = append(monitors, Monitor{
			Name: fmt.Sprintf("Xinerama-%d", i),
			Geometry: Geometry{
				X:      int(s.XOrg),
				Y:      int(s.YOrg),
				Width:  int(s.Width),
				Height: int(s.Height),
			},
		})
	}
	return monitors, nil
}

// X11WindowManager returns the name the running window manager advertises,
// for guessing the desktop when XDG_CURRENT_DESKTOP isn't set.
func X11WindowManager(display string) (string, error) {
	X, err := connectX(display)
	if err != nil {
		return "", err
	}
	defer X.Conn().Close()

	return ewmh.GetEwmhWM(X)
}
