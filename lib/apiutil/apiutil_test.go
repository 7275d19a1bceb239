package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: InvalidInput("Missing 'url' parameter"), status: http.StatusBadRequest},
		{err: NotFound("no coupons"), status: http.StatusNotFound},
		{err: Conflict("slug taken"), status: http.StatusConflict},
		{err: Upstream("clipto failed", errors.New("eof")), status: http.StatusBadGateway},
		{err: fmt.Errorf("wrapped: %w", NotFound("gone")), status: http.StatusNotFound},
		{err: echo.NewHTTPError(http.StatusTeapot, "tea"), status: http.StatusTeapot},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.status, Status(c.err), c.err.Error())
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/fail", func(c echo.Context) error {
		return Upstream("Failed to reach upstream", errors.New("connection reset"))
	})
	e.GET("/missing", func(c echo.Context) error {
		_, err := RequireParam(c, "prompt")
		return err
	})

	{
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.Equal(t, http.StatusBadGateway, rec.Code)

		var body ErrorBody
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.Success)
		require.Equal(t, "Failed to reach upstream", body.Error)
	}

	{
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing?prompt=%20", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body ErrorBody
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Missing 'prompt' parameter", body.Error)
	}
}

func TestIntParam(t *testing.T) {
	e := echo.New()
	newCtx := func(query string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	v, err := IntParam(newCtx(""), "amount", 10, 1, 2000)
	require.Nil(t, err)
	require.Equal(t, 10, v)

	v, err = IntParam(newCtx("amount=25"), "amount", 10, 1, 2000)
	require.Nil(t, err)
	require.Equal(t, 25, v)

	_, err = IntParam(newCtx("amount=2001"), "amount", 10, 1, 2000)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = IntParam(newCtx("amount=abc"), "amount", 10, 1, 2000)
	require.ErrorIs(t, err, ErrInvalidInput)
}
