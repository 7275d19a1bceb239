package social

import (
	"log/slog"
	"net/http"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type scrapeResponse struct {
	InputUrl  string `json:"input_url"`
	TimeTaken string `json:"time_taken"`
	Results   any    `json:"results"`
}

func (s *Service) Register(g *echo.Group) {
	g.GET("/thd", s.handleThreads)
	g.GET("/twit", s.handleTwitter)
}

func (s *Service) handleThreads(c echo.Context) error {
	start := time.Now()
	url, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	data, err := s.Threads(c.Request().Context(), url)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "threads scrape failed", "url", url, "err", err)
		return apiutil.NotFound("Failed to fetch Threads data")
	}
	return c.JSON(http.StatusOK, scrapeResponse{
		InputUrl:  url,
		TimeTaken: apiutil.TimeTaken(start),
		Results:   data,
	})
}

func (s *Service) handleTwitter(c echo.Context) error {
	start := time.Now()
	url, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	tweet, err := s.Twitter(c.Request().Context(), url)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "twitter scrape failed", "url", url, "err", err)
		return apiutil.NotFound("Failed to fetch Twitter data")
	}
	return c.JSON(http.StatusOK, scrapeResponse{
		InputUrl:  url,
		TimeTaken: apiutil.TimeTaken(start),
		Results:   tweet,
	})
}
