package middleware

import (
	"fmt"
	"net/http"
	"time"

	"leaf-doctor/api/internal/metrics"

	"github.com/aidarkhanov/nanoid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-Id"

type Context struct {
	echo.Context
	Log   *zap.SugaredLogger
	Reqid string
}

// Logger returns the request-scoped logger set by NewTrackMiddleware, or
// fallback when the handler runs without it.
func Logger(c echo.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if cc, ok := c.(*Context); ok && cc.Log != nil {
		return cc.Log
	}
	return fallback
}

func NewTrackMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID, _ := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 28)
			reqID = "req_" + reqID
			logger := log.With(
				"request_id", reqID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
			)
			c.Response().Header().Set(HeaderRequestID, reqID)

			cc := &Context{Context: c, Log: logger, Reqid: reqID}
			start := time.Now()
			err := next(cc)
			if err != nil {
				// let the error handler write the response so the status below is final
				cc.Error(err)
			}
			duration := time.Since(start)
			cc.Log.Infow("end_of_request", "status_code", fmt.Sprintf("%d", cc.Response().Status), "duration", duration.String())
			metrics.ResponseCodes.WithLabelValues(routePath(cc), fmt.Sprintf("%d", cc.Response().Status)).Inc()
			return nil
		}
	}
}

// routePath keeps the label set bounded: unmatched requests share one label.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}

func NewRecoverMiddleware(log *zap.SugaredLogger, body func(err error) any) echo.MiddlewareFunc {
	return emw.RecoverWithConfig(emw.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			defer func() {
				_ = log.Sync()
			}()
			Logger(c, log).Errorw("Api Panic", "error", err.Error(), "stack", string(stack))
			return c.JSON(http.StatusInternalServerError, body(err))
		},
	})
}

func NewCORSMiddleware() echo.MiddlewareFunc {
	return emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}
