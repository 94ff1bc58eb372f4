package ipc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Info describes the daemon for the status endpoint.
type Info struct {
	Socket  string
	Cache   string
	Backend string
	Sink    string
}

type Server struct {
	e    *echo.Echo
	info Info
}

func NewServer(svc Service, info Info) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(charmLog())

	e.GET("/status", statusHandler(svc, info))
	e.GET("/monitors", monitorsHandler(svc))
	e.POST("/apply", applyHandler(svc))

	return &Server{e: e, info: info}
}

func (s *Server) Handler() http.Handler {
	return s.e
}

// Serve listens on the unix socket until ctx is done. A stale socket left by
// a daemon that died is replaced, a live one is an error.
func (s *Server) Serve(ctx context.Context) error {
	path := s.info.Socket

	if _, err := os.Stat(path); err == nil {
		if daemonRunning(ctx, path) {
			return errors.New("spanwall is already running on " + path)
		}
		_ = os.Remove(path)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	s.e.Listener = listener

	errs := make(chan error, 1)
	go func() {
		errs <- s.e.StartServer(s.e.Server)
	}()
	log.Infof("Listening on %s", path)

	select {
	case err = <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.e.Shutdown(shutdown)
}

func daemonRunning(ctx context.Context, socket string) bool {
	c := NewClient(socket)
	defer c.Close()

	_, err := c.Status(ctx)
	return err == nil
}

func charmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Debug("request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"took", time.Since(start))
			return nil
		}
	}
}
