package apiutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// RequireParam returns the trimmed query parameter or an invalid input
// error naming the missing parameter.
func RequireParam(c echo.Context, name string) (string, error) {
	value := strings.TrimSpace(c.QueryParam(name))
	if value == "" {
		return "", InvalidInput("Missing '%s' parameter", name)
	}
	return value, nil
}

// ParamOr returns the trimmed query parameter or `fallback` when it is
// absent or blank.
func ParamOr(c echo.Context, name, fallback string) string {
	value := strings.TrimSpace(c.QueryParam(name))
	if value == "" {
		return fallback
	}
	return value
}

// IntParam parses an integer query parameter bounded by [min, max].
func IntParam(c echo.Context, name string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, InvalidInput("'%s' must be a number", name)
	}
	if value < min || value > max {
		return 0, InvalidInput("'%s' must be between %d and %d", name, min, max)
	}
	return value, nil
}

// TimeTaken formats the time elapsed since `start` as "1.23s".
func TimeTaken(start time.Time) string {
	return fmt.Sprintf("%.2fs", time.Since(start).Seconds())
}
