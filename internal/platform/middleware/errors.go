package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbook/orbook/internal/platform/apperr"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorHandler translates service errors into responses by switching on the
// apperr kind. Unexpected errors are logged and returned opaque.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, errorBody{Error: errorDetail{
				Kind:    "http",
				Message: fmt.Sprintf("%v", he.Message),
			}})
			return
		}

		status := apperr.Status(err)
		if status == http.StatusInternalServerError {
			logger.Error().
				Str("request_id", RequestIDFrom(c)).
				Err(err).
				Msg("unexpected error")
			_ = c.JSON(status, errorBody{Error: errorDetail{
				Kind:    apperr.KindUnexpected.String(),
				Message: "internal server error",
			}})
			return
		}
		_ = c.JSON(status, errorBody{Error: errorDetail{
			Kind:    apperr.KindOf(err).String(),
			Message: err.Error(),
		}})
	}
}
