package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbook/orbook/internal/platform/apperr"
)

// Recovery converts a handler panic into the unexpected-error path of the
// error taxonomy, so the client sees the same opaque 500 as any other
// unanticipated failure while the stack lands in the log.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Str("request_id", RequestIDFrom(c)).
						Str("panic", fmt.Sprintf("%v", r)).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					err = apperr.Newf(apperr.KindUnexpected, "panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
