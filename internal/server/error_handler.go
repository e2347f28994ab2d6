package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"shopease/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const genericMessage = "Something went wrong!"

type errorBody struct {
	Message string `json:"message"`
	// only outside production
	Error string `json:"error,omitempty"`
}

// NewErrorHandler renders every error that reaches echo. Server errors are
// logged and answered with a generic message.
func NewErrorHandler(logger *slog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Message: genericMessage}

		var appErr *usecase.HTTPError
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			if status < http.StatusInternalServerError {
				body.Message = appErr.Message
			}
		case errors.As(err, &echoErr):
			status = echoErr.Code
			if status < http.StatusInternalServerError {
				body.Message = fmt.Sprint(echoErr.Message)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "unhandled error",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)
			if !production {
				body.Error = err.Error()
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response failed", slog.Any("error", werr))
		}
	}
}
