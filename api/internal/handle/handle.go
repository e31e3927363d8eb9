package handle

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"leaf-doctor/api/internal/inference"
	"leaf-doctor/api/internal/middleware"
	"leaf-doctor/api/internal/upload"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const LivenessText = "Plant disease detection API is running."

// Response is the JSON envelope of every API route.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Failure(message string, err error) Response {
	r := Response{Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

type Handle struct {
	engine  *inference.Engine
	uploads *upload.Store
	log     *zap.SugaredLogger
	timeout time.Duration
}

func New(engine *inference.Engine, uploads *upload.Store, log *zap.SugaredLogger, timeout time.Duration) *Handle {
	return &Handle{
		engine:  engine,
		uploads: uploads,
		log:     log,
		timeout: timeout,
	}
}

func (h *Handle) Root(c echo.Context) error {
	return c.String(http.StatusOK, LivenessText)
}

// requestContext bounds the upstream call. X-Request-Timeout (header) or
// timeoutSec (query), in seconds, may shorten the configured deadline but
// never extend it.
func (h *Handle) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	ts := c.Request().Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = c.QueryParam("timeoutSec")
	}
	return context.WithTimeout(c.Request().Context(), clampTimeout(ts, h.timeout))
}

func clampTimeout(ts string, limit time.Duration) time.Duration {
	v, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || v <= 0 || v >= int64(limit/time.Second) {
		return limit
	}
	return time.Duration(v) * time.Second
}

func (h *Handle) logger(c echo.Context) *zap.SugaredLogger {
	return middleware.Logger(c, h.log)
}
