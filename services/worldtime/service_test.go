package worldtime

import (
	"context"
	"net/http"
	"testing"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func fixedService() Service {
	return Service{now: func() time.Time {
		return time.Date(2025, time.January, 15, 13, 4, 5, 0, time.UTC)
	}}
}

func TestLookup(t *testing.T) {
	service := fixedService()
	ctx := context.Background()

	uk, err := service.Lookup(ctx, "uk")
	require.Nil(t, err)
	require.Equal(t, "GB", uk.CountryCode)
	require.Equal(t, "Europe/London", uk.Timezone)
	require.Equal(t, "01:04:05 PM", uk.Time)
	require.Equal(t, "15 Jan, 2025", uk.Date)
	require.Equal(t, "Wednesday", uk.Day)
	require.Equal(t, "🇬🇧", uk.Flag)

	uae, err := service.Lookup(ctx, "UAE")
	require.Nil(t, err)
	require.Equal(t, "Asia/Dubai", uae.Timezone)
	require.Equal(t, "05:04:05 PM", uae.Time)

	japan, err := service.Lookup(ctx, "jp")
	require.Nil(t, err)
	require.Equal(t, "Asia/Tokyo", japan.Timezone)
	require.Equal(t, "10:04:05 PM", japan.Time)

	_, err = service.Lookup(ctx, "qqqqqq")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func TestHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	fixedService().Register(e.Group("/time"))

	rec := testutil.Do(e, http.MethodGet, "/time?country=germany")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"timezone":"Europe/Berlin"`)

	rec = testutil.Do(e, http.MethodGet, "/time")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing 'country' parameter")
}
