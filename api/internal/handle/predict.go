package handle

import (
	"context"
	"errors"
	"net/http"

	"leaf-doctor/api/internal/metrics"
	"leaf-doctor/api/internal/upload"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errStoreUpload = errors.New("failed to store upload")

const (
	msgNoFile       = "No file uploaded."
	msgInvalidForm  = "Invalid upload."
	msgPredictError = "Error processing image."
)

// Predict diagnoses the image sent as multipart field "file".
func (h *Handle) Predict(c echo.Context) error {
	log := h.logger(c)

	art, err := h.uploads.Accept(c, "file")
	if err != nil {
		return h.rejectUpload(c, log, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	code, resp := h.predict(ctx, art, log)
	return c.JSON(code, resp)
}

// rejectUpload answers an intake failure. Only client mistakes are 4xx;
// storage failures are 500 and keep server paths out of the response.
func (h *Handle) rejectUpload(c echo.Context, log *zap.SugaredLogger, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, upload.ErrNoFile):
		return c.JSON(http.StatusBadRequest, Failure(msgNoFile, nil))
	case errors.Is(err, upload.ErrInvalidForm):
		log.Warnw("rejected upload", "error", err)
		return c.JSON(http.StatusBadRequest, Failure(msgInvalidForm, err))
	case errors.As(err, &he):
		log.Warnw("rejected upload", "status", he.Code, "error", err)
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return c.JSON(he.Code, Failure(msg, nil))
	}
	log.Errorw("failed to store upload", "error", err)
	return c.JSON(http.StatusInternalServerError, Failure(msgPredictError, errStoreUpload))
}

// predict owns art: it is removed before the caller writes the response.
func (h *Handle) predict(ctx context.Context, art *upload.Artifact, log *zap.SugaredLogger) (int, Response) {
	defer func() {
		if err := art.Remove(); err != nil {
			metrics.CleanupFailures.Inc()
			log.Warnw("failed to remove upload", "path", art.Path, "error", err)
		}
	}()

	log = log.With("filename", art.Filename, "mime", art.MIMEType, "size", art.Size)

	img, err := art.Read()
	if err != nil {
		log.Errorw("failed to read upload", "error", err)
		return http.StatusInternalServerError, Failure(msgPredictError, err)
	}

	text, err := h.engine.Diagnose(ctx, img, art.MIMEType)
	if err != nil {
		log.Errorw("diagnosis failed", "model", h.engine.Name(), "error", err)
		return http.StatusInternalServerError, Failure(msgPredictError, err)
	}
	return http.StatusOK, Response{Success: true, Result: text}
}
