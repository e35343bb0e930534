package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GlobalErrorHandler maps typed application errors to HTTP statuses. Every
// handler returns errors instead of writing status JSON by hand.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			body := map[string]any{"error": ve.Message}
			if len(ve.Details) > 0 {
				body["error"] = "Validation Error"
				body["details"] = ve.Details
			}
			_ = c.JSON(http.StatusBadRequest, body)
			return
		}

		var nf *NotFoundError
		if errors.As(err, &nf) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nf.Message})
			return
		}

		var ua *UnauthorizedError
		if errors.As(err, &ua) {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{"error": ua.Message})
			return
		}

		var fb *ForbiddenError
		if errors.As(err, &fb) {
			_ = c.JSON(http.StatusForbidden, map[string]string{"error": fb.Message})
			return
		}

		var cf *ConflictError
		if errors.As(err, &cf) {
			_ = c.JSON(http.StatusConflict, map[string]string{"error": cf.Message})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
