package apiutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream failure")
)

// Error carries a message that is safe to show to the caller, the kind
// decides the status code.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure talking to a third party, `message` is shown
// to the caller and `cause` is only logged.
func Upstream(message string, cause error) error {
	return &Error{Kind: ErrUpstream, Message: message, Cause: cause}
}

// Status maps an error onto the http status it should be reported with.
func Status(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "upstream timed out"
	}
	return "internal server error"
}

type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorHandler is installed as echo's HTTPErrorHandler so every handler
// can just return its error.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := Status(err)
	ctx := c.Request().Context()
	if status >= 500 {
		slog.ErrorContext(ctx, "request failed", "path", c.Path(), "status", status, "err", err)
	} else {
		slog.DebugContext(ctx, "request rejected", "path", c.Path(), "status", status, "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorBody{Success: false, Error: message(err)})
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to write error response", "err", err)
	}
}
