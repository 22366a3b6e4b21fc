package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wellkit/session-service/internal/dto"
)

// ErrorHandler renders every error that escapes a handler as the service's
// JSON error envelope. Handlers map domain errors to echo.HTTPError; anything
// unmapped falls through as a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprintf("%v", m)
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
