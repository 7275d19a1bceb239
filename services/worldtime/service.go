package worldtime

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/countries"
	"toolbox-backend/lib/timezone"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/worldtime")

type CountryTime struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Time        string `json:"time"`
	Date        string `json:"date"`
	Day         string `json:"day"`
	Timezone    string `json:"timezone"`
	Flag        string `json:"flag"`
}

type Service struct {
	now func() time.Time
}

func NewService() Service {
	return Service{now: time.Now}
}

// Lookup resolves a country by alias, code or name and formats its
// current local time in the first timezone listed for it.
func (s Service) Lookup(ctx context.Context, input string) (CountryTime, error) {
	_, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	country, err := countries.Lookup(input)
	if errors.Is(err, countries.ErrUnknownCountry) {
		return CountryTime{}, apiutil.InvalidInput("Invalid country code or name")
	}
	if err != nil {
		return CountryTime{}, err
	}

	result := CountryTime{
		CountryName: country.Name,
		CountryCode: country.Code,
		Flag:        country.Flag,
		Time:        "00:00:00 AM",
		Date:        "Unknown Date",
		Day:         "Unknown Day",
		Timezone:    "Unknown",
	}

	loc, err := timezone.Location(country.Code)
	if err != nil {
		slog.WarnContext(ctx, "no timezone for country", "code", country.Code, "err", err)
		return result, nil
	}
	clock := timezone.FormatClock(s.now().In(loc))
	result.Time = clock.Time
	result.Date = clock.Date
	result.Day = clock.Weekday
	result.Timezone = loc.String()
	return result, nil
}
