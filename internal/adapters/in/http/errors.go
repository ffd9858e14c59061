package http

import (
	"context"
	"errors"
	"net/http"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps the error kinds of the core to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errs.IsValidation(err), errors.Is(err, kernel.ErrUUIDIsNotConstructed):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errs.IsRetryable(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Internal failures are logged and their details are
// kept out of the response body.
func (s *Server) writeError(c echo.Context, err error) error {
	status := statusFor(err)

	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
		message = "internal error"
	case http.StatusServiceUnavailable:
		message = "the request conflicted with a concurrent update, please retry"
	}

	return c.JSON(status, Error{Code: status, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
