package serviceutil

import (
	"log/slog"
	"math"
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("toolbox.http")
var meter = otel.Meter("toolbox.http")

var requestCounter, _ = meter.Int64Counter(
	"http.server.request_count",
	metric.WithDescription("Requests handled, by route and status."),
)

type ServerOptions struct {
	// requests per second allowed per client ip, 0 disables the limiter
	RateLimit float64
	Burst     int
}

// NewEcho creates the echo instance every service registers its routes on.
func NewEcho(opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apiutil.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(traceRequests)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURIPath:    true,
		LogStatus:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.InfoContext(
				c.Request().Context(), "request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	}))

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(1, int(math.Ceil(opts.RateLimit*2)))
		}
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:  rate.Limit(opts.RateLimit),
					Burst: burst,
				},
			),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			},
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}

func traceRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx, span := tracer.Start(req.Context(), req.Method+" "+c.Path())
		defer span.End()
		c.SetRequest(req.WithContext(ctx))

		err := next(c)
		status := c.Response().Status
		if err != nil {
			status = apiutil.Status(err)
			span.RecordError(err)
		}
		span.SetAttributes(
			attribute.String("http.route", c.Path()),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		requestCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("http.route", c.Path()),
			attribute.Int("http.status_code", status),
		))
		return err
	}
}
