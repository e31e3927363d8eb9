package handle

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TestGemini runs a text-only call through the same engine as Predict.
func (h *Handle) TestGemini(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	text, err := h.engine.Ping(ctx)
	if err != nil {
		h.logger(c).Errorw("gemini test failed", "model", h.engine.Name(), "error", err)
		return c.JSON(http.StatusInternalServerError, Failure("Gemini API test failed.", err))
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Gemini API is working.",
		Result:  text,
	})
}
