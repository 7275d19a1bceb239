package instagram

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type downloadResponse struct {
	Status     string  `json:"status"`
	MediaCount int     `json:"media_count"`
	Results    []Media `json:"results"`
}

func (s *Service) Register(g *echo.Group) {
	g.GET("/dl", s.handleDownload)
}

func (s *Service) handleDownload(c echo.Context) error {
	url, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	media, err := s.Download(c.Request().Context(), url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, downloadResponse{
		Status:     "success",
		MediaCount: len(media),
		Results:    media,
	})
}
