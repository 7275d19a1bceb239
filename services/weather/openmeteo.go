package weather

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/codes"
)

type geocodeResult struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Apparent      float64 `json:"apparent_temperature"`
		WeatherCode   int     `json:"weathercode"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
	} `json:"current"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		Apparent                 []float64 `json:"apparent_temperature"`
		Humidity                 []float64 `json:"relative_humidity_2m"`
		WeatherCode              []int     `json:"weathercode"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily struct {
		Time        []string  `json:"time"`
		Max         []float64 `json:"temperature_2m_max"`
		Min         []float64 `json:"temperature_2m_min"`
		Sunrise     []string  `json:"sunrise"`
		Sunset      []string  `json:"sunset"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

type airQualityResponse struct {
	Hourly struct {
		Time            []string  `json:"time"`
		Pm10            []float64 `json:"pm10"`
		Pm25            []float64 `json:"pm2_5"`
		CarbonMonoxide  []float64 `json:"carbon_monoxide"`
		NitrogenDioxide []float64 `json:"nitrogen_dioxide"`
		Ozone           []float64 `json:"ozone"`
	} `json:"hourly"`
}

func coordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) geocode(ctx context.Context, area string) (geocodeResult, bool, error) {
	ctx, span := tracer.Start(ctx, "geocode")
	defer span.End()

	var body geocodeResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     area,
			"count":    "1",
			"language": "en",
			"format":   "json",
		}).
		SetResult(&body).
		Get(s.opts.GeocodingBaseUrl + "/v1/search")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding request failed")
		return geocodeResult{}, false, err
	}
	if res.StatusCode() != http.StatusOK {
		return geocodeResult{}, false, fmt.Errorf("geocoding returned %s", res.Status())
	}
	if len(body.Results) == 0 {
		return geocodeResult{}, false, nil
	}
	return body.Results[0], true, nil
}

func (s *Service) forecast(ctx context.Context, lat, lon float64) (forecastResponse, error) {
	ctx, span := tracer.Start(ctx, "forecast")
	defer span.End()

	var body forecastResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  coordinate(lat),
			"longitude": coordinate(lon),
			"current":   "temperature_2m,relative_humidity_2m,apparent_temperature,weathercode,wind_speed_10m,wind_direction_10m",
			"hourly":    "temperature_2m,apparent_temperature,relative_humidity_2m,weathercode,precipitation_probability",
			"daily":     "temperature_2m_max,temperature_2m_min,sunrise,sunset,weathercode",
			"timezone":  "auto",
		}).
		SetResult(&body).
		Get(s.opts.ForecastBaseUrl + "/v1/forecast")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forecast request failed")
		return forecastResponse{}, err
	}
	if res.StatusCode() != http.StatusOK {
		return forecastResponse{}, fmt.Errorf("forecast returned %s", res.Status())
	}
	return body, nil
}

func (s *Service) airQuality(ctx context.Context, lat, lon float64) (airQualityResponse, error) {
	ctx, span := tracer.Start(ctx, "airQuality")
	defer span.End()

	var body airQualityResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  coordinate(lat),
			"longitude": coordinate(lon),
			"hourly":    "pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,ozone",
			"timezone":  "auto",
		}).
		SetResult(&body).
		Get(s.opts.AirQualityBaseUrl + "/v1/air-quality")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "air quality request failed")
		return airQualityResponse{}, err
	}
	if res.StatusCode() != http.StatusOK {
		return airQualityResponse{}, fmt.Errorf("air quality returned %s", res.Status())
	}
	return body, nil
}
