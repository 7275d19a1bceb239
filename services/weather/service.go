package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/countries"
	"toolbox-backend/lib/restyutil"
	"toolbox-backend/lib/textutil"
	"toolbox-backend/lib/timezone"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("services/weather")

type Options struct {
	GeocodingBaseUrl  string
	ForecastBaseUrl   string
	AirQualityBaseUrl string
	UploadBaseUrl     string
	Output            restyutil.InstrumentOutput
}

func (o *Options) defaults() {
	if o.GeocodingBaseUrl == "" {
		o.GeocodingBaseUrl = "https://geocoding-api.open-meteo.com"
	}
	if o.ForecastBaseUrl == "" {
		o.ForecastBaseUrl = "https://api.open-meteo.com"
	}
	if o.AirQualityBaseUrl == "" {
		o.AirQualityBaseUrl = "https://air-quality-api.open-meteo.com"
	}
	if o.UploadBaseUrl == "" {
		o.UploadBaseUrl = "https://tmpfiles.org"
	}
}

type Service struct {
	client *resty.Client
	opts   Options
	now    func() time.Time
}

func NewService(opts Options) *Service {
	opts.defaults()
	return &Service{
		client: restyutil.NewClient(restyutil.ClientOptions{
			Timeout:    time.Second * 20,
			TracerName: "services/weather/http",
			Output:     opts.Output,
		}),
		opts: opts,
		now:  time.Now,
	}
}

func (s *Service) localNow(countryCode string) time.Time {
	loc, err := timezone.Location(countryCode)
	if err != nil {
		loc = time.UTC
	}
	return s.now().In(loc)
}

// Weather geocodes the area and reports its current conditions,
// forecasts and air quality. A failed card upload is reported in
// ImageError rather than failing the request.
func (s *Service) Weather(ctx context.Context, area string) (Report, error) {
	ctx, span := tracer.Start(ctx, "Weather")
	defer span.End()

	area = strings.TrimSpace(area)
	place, found, err := s.geocode(ctx, area)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding failed")
		return Report{}, apiutil.Upstream("Failed to look up area", err)
	}
	if !found {
		return Report{}, apiutil.NotFound("Weather data unavailable for '%s'. Please check the city name.", area)
	}

	var forecast forecastResponse
	var airQuality airQualityResponse
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		forecast, err = s.forecast(groupCtx, place.Latitude, place.Longitude)
		return err
	})
	group.Go(func() error {
		var err error
		airQuality, err = s.airQuality(groupCtx, place.Latitude, place.Longitude)
		return err
	})
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather fetch failed")
		return Report{}, apiutil.Upstream("Failed to fetch weather data", err)
	}

	code := strings.ToUpper(place.CountryCode)
	city := place.Name
	if city == "" {
		city = textutil.Title(area)
	}
	country := place.Country
	if name := countries.Name(code); name != "Unknown" {
		country = name
	}
	report := buildReport(Location{
		City:        city,
		Country:     country,
		CountryCode: code,
		Coordinates: Coordinates{
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		},
	}, forecast, airQuality, s.localNow(code))

	image, err := renderCard(report)
	if err == nil {
		var url string
		url, err = s.upload(ctx, "weather.png", image)
		if err == nil {
			report.ImageUrl = &url
		}
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to publish weather card", "area", area, "err", err)
		report.ImageError = "Failed to upload image to hosting service"
	}
	return report, nil
}
