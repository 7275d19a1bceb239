package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestForCountry(t *testing.T) {
	require.Equal(t, []string{"Europe/London"}, ForCountry("gb"))
	require.Equal(t, []string{"Asia/Dubai"}, ForCountry("AE"))
	require.Equal(t, "America/New_York", ForCountry("US")[0])
	require.Nil(t, ForCountry("ZZ"))

	_, err := Location("ZZ")
	require.ErrorIs(t, err, ErrUnknownCountry)
}

func TestEveryZoneLoads(t *testing.T) {
	zonesOnce.Do(loadZones)
	require.Greater(t, len(zones), 200)

	for code, list := range zones {
		require.Len(t, code, 2)
		for _, name := range list {
			_, err := time.LoadLocation(name)
			require.Nil(t, err, "%s: %s", code, name)
		}
	}
}

func TestFormatClock(t *testing.T) {
	now := time.Date(2024, time.August, 26, 15, 4, 5, 0, time.UTC)
	require.Equal(t, Clock{
		Time:    "03:04:05 PM",
		Date:    "26 Aug, 2024",
		Weekday: "Monday",
	}, FormatClock(now))
}
