package ipc

import (
	"errors"
	"net/http"
	"os"

	lib "github.com/awused/spanwall/lib"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// GET /status
func statusHandler(svc Service, info Info) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := StatusResponse{
			Status:  "ok",
			PID:     os.Getpid(),
			Socket:  info.Socket,
			Cache:   info.Cache,
			Backend: info.Backend,
			Sink:    info.Sink,
		}
		if last, ok := svc.LastResult(); ok {
			ar := toApplyResponse(last)
			res.Last = &ar
		}
		return c.JSONPretty(http.StatusOK, res, "  ")
	}
}

// GET /monitors
func monitorsHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ms, err := svc.Monitors(c.Request().Context())
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(http.StatusOK, ToMonitorResponses(ms))
	}
}

// POST /apply
func applyHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := svc.Apply(c.Request().Context())
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, toApplyResponse(res))
	}
}

func errorStatus(err error) int {
	var missing *lib.MissingWallpaperError
	var query *lib.MonitorQueryError
	var decode *lib.ImageDecodeError

	switch {
	case errors.As(err, &missing):
		return http.StatusConflict
	case errors.As(err, &decode):
		return http.StatusUnprocessableEntity
	case errors.As(err, &query):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func errorResponse(c echo.Context, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %s", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
