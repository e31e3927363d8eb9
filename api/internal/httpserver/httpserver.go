package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"leaf-doctor/api/internal/handle"
	"leaf-doctor/api/internal/middleware"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const DefaultShutdownTimeout = 10 * time.Second

type Options struct {
	Handle        *handle.Handle
	Log           *zap.SugaredLogger
	MaxUploadSize string // echo size syntax: "10M", "512K"
}

// New wires the routes. It does not listen; use StartHTTP or ServeHTTP.
func New(opt Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(opt.Log)

	e.Use(middleware.NewTrackMiddleware(opt.Log))
	e.Use(middleware.NewRecoverMiddleware(opt.Log, func(error) any {
		return handle.Failure("internal server error", nil)
	}))
	e.Use(middleware.NewCORSMiddleware())
	if opt.MaxUploadSize != "" {
		e.Use(emw.BodyLimit(opt.MaxUploadSize))
	}

	h := opt.Handle
	e.GET("/", h.Root)
	e.POST("/predict", h.Predict)
	e.GET("/test-gemini", h.TestGemini)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// errorHandler keeps framework errors (404, 405, 413) in the API envelope.
func errorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			middleware.Logger(c, log).Errorw("unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, handle.Failure(msg, nil))
		}
		if err != nil {
			middleware.Logger(c, log).Errorw("failed to write error response", "error", err)
		}
	}
}

// StartHTTP serves until ctx is done, then shuts down gracefully.
func StartHTTP(ctx context.Context, e *echo.Echo, addr string, log *zap.SugaredLogger) error {
	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
