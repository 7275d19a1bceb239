package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var weatherCodes = map[int]string{
	0: "Clear", 1: "Scattered Clouds", 2: "Scattered Clouds", 3: "Overcast Clouds",
	45: "Fog", 48: "Haze", 51: "Light Drizzle", 53: "Drizzle",
	55: "Heavy Drizzle", 61: "Light Rain", 63: "Moderate Rain", 65: "Heavy Rain",
	66: "Freezing Rain", 67: "Heavy Freezing Rain", 71: "Light Snow",
	73: "Snow", 75: "Heavy Snow", 77: "Snow Grains", 80: "Showers",
	81: "Heavy Showers", 82: "Violent Showers", 95: "Thunderstorm",
	96: "Thunderstorm", 99: "Heavy Thunderstorm",
}

func describe(code int) string {
	if name, ok := weatherCodes[code]; ok {
		return name
	}
	return "Unknown"
}

// AqiLevel grades a pm2.5 concentration in µg/m³.
func AqiLevel(pm25 float64) string {
	switch {
	case pm25 <= 12:
		return "Good"
	case pm25 <= 35:
		return "Fair"
	case pm25 <= 55:
		return "Moderate"
	default:
		return "Poor"
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func at(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return 0
	}
	return values[i]
}

func atString(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

// clockOf returns the "HH:MM" part of an open-meteo local timestamp.
func clockOf(timestamp string) string {
	_, clock, ok := strings.Cut(timestamp, "T")
	if !ok || len(clock) < 5 {
		return ""
	}
	return clock[:5]
}

// hourIndex finds the hourly slot containing `current`, both formatted as
// "2006-01-02T15:04".
func hourIndex(times []string, current string) int {
	if len(current) < 13 {
		return 0
	}
	for i, t := range times {
		if len(t) >= 13 && t[:13] == current[:13] {
			return i
		}
	}
	return 0
}

func hourLabel(timestamp string) string {
	t, err := time.Parse("2006-01-02T15:04", timestamp)
	if err != nil {
		return clockOf(timestamp)
	}
	return t.Format("3 PM")
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	CountryCode string      `json:"country_code"`
	Coordinates Coordinates `json:"coordinates"`
}

type Current struct {
	Time          string  `json:"time"`
	Date          string  `json:"date"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Weather       string  `json:"weather"`
	WeatherCode   int     `json:"weather_code"`
	Sunrise       string  `json:"sunrise"`
	Sunset        string  `json:"sunset"`
}

type Hour struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	Weather                  string  `json:"weather"`
	Humidity                 float64 `json:"humidity"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
}

type Day struct {
	Date    string  `json:"date"`
	Day     string  `json:"day"`
	MinTemp float64 `json:"min_temp"`
	MaxTemp float64 `json:"max_temp"`
	Weather string  `json:"weather"`
	Sunrise string  `json:"sunrise"`
	Sunset  string  `json:"sunset"`
}

type AirQuality struct {
	Level           string  `json:"level"`
	Pm25            float64 `json:"pm2_5"`
	Pm10            float64 `json:"pm10"`
	CarbonMonoxide  float64 `json:"carbon_monoxide"`
	NitrogenDioxide float64 `json:"nitrogen_dioxide"`
	Ozone           float64 `json:"ozone"`
}

type Maps struct {
	Temperature   string `json:"temperature"`
	Clouds        string `json:"clouds"`
	Precipitation string `json:"precipitation"`
	Wind          string `json:"wind"`
	Pressure      string `json:"pressure"`
}

type Report struct {
	Status         string     `json:"status"`
	Location       Location   `json:"location"`
	Current        Current    `json:"current"`
	HourlyForecast []Hour     `json:"hourly_forecast"`
	DailyForecast  []Day      `json:"daily_forecast"`
	AirQuality     AirQuality `json:"air_quality"`
	Maps           Maps       `json:"maps"`
	ImageUrl       *string    `json:"image_url"`
	ImageError     string     `json:"image_error,omitempty"`
}

func mapLink(layer string, lat, lon float64) string {
	return fmt.Sprintf(
		"https://openweathermap.org/weathermap?basemap=map&cities=true&layer=%s&lat=%s&lon=%s&zoom=8",
		layer, coordinate(lat), coordinate(lon),
	)
}

// buildReport assembles the report from the upstream responses, `now` is
// already in the location's timezone.
func buildReport(place Location, f forecastResponse, aq airQualityResponse, now time.Time) Report {
	lat := place.Coordinates.Latitude
	lon := place.Coordinates.Longitude

	report := Report{
		Status:   "success",
		Location: place,
		Current: Current{
			Time:          now.Format("03:04 PM"),
			Date:          now.Format("2006-01-02"),
			Temperature:   round(f.Current.Temperature, 1),
			FeelsLike:     round(f.Current.Apparent, 1),
			Humidity:      f.Current.Humidity,
			WindSpeed:     round(f.Current.WindSpeed, 1),
			WindDirection: f.Current.WindDirection,
			Weather:       describe(f.Current.WeatherCode),
			WeatherCode:   f.Current.WeatherCode,
			Sunrise:       clockOf(atString(f.Daily.Sunrise, 0)),
			Sunset:        clockOf(atString(f.Daily.Sunset, 0)),
		},
		HourlyForecast: []Hour{},
		DailyForecast:  []Day{},
		Maps: Maps{
			Temperature:   mapLink("temperature", lat, lon),
			Clouds:        mapLink("clouds", lat, lon),
			Precipitation: mapLink("precipitation", lat, lon),
			Wind:          mapLink("wind", lat, lon),
			Pressure:      mapLink("pressure", lat, lon),
		},
	}

	start := hourIndex(f.Hourly.Time, f.Current.Time)
	for i := start; i < len(f.Hourly.Time) && len(report.HourlyForecast) < 12; i++ {
		code := 0
		if i < len(f.Hourly.WeatherCode) {
			code = f.Hourly.WeatherCode[i]
		}
		report.HourlyForecast = append(report.HourlyForecast, Hour{
			Time:                     hourLabel(f.Hourly.Time[i]),
			Temperature:              round(at(f.Hourly.Temperature, i), 1),
			Weather:                  describe(code),
			Humidity:                 at(f.Hourly.Humidity, i),
			PrecipitationProbability: at(f.Hourly.PrecipitationProbability, i),
		})
	}

	for i := 0; i < len(f.Daily.Time) && i < 7; i++ {
		day := Day{
			Date:    f.Daily.Time[i],
			Day:     f.Daily.Time[i],
			MinTemp: round(at(f.Daily.Min, i), 1),
			MaxTemp: round(at(f.Daily.Max, i), 1),
			Sunrise: clockOf(atString(f.Daily.Sunrise, i)),
			Sunset:  clockOf(atString(f.Daily.Sunset, i)),
			Weather: "Unknown",
		}
		if i < len(f.Daily.WeatherCode) {
			day.Weather = describe(f.Daily.WeatherCode[i])
		}
		if date, err := time.Parse("2006-01-02", f.Daily.Time[i]); err == nil {
			day.Day = date.Format("Mon, Jan 02")
		}
		report.DailyForecast = append(report.DailyForecast, day)
	}

	idx := hourIndex(aq.Hourly.Time, f.Current.Time)
	pm25 := at(aq.Hourly.Pm25, idx)
	report.AirQuality = AirQuality{
		Level:           AqiLevel(pm25),
		Pm25:            round(pm25, 2),
		Pm10:            round(at(aq.Hourly.Pm10, idx), 2),
		CarbonMonoxide:  round(at(aq.Hourly.CarbonMonoxide, idx), 2),
		NitrogenDioxide: round(at(aq.Hourly.NitrogenDioxide, idx), 2),
		Ozone:           round(at(aq.Hourly.Ozone, idx), 2),
	}
	return report
}
