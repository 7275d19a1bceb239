package facebook

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type downloadResult struct {
	Video
	TotalLinks int `json:"total_links"`
}

func (s Service) Register(g *echo.Group) {
	g.GET("/dl", s.handleDownload)
}

func (s Service) handleDownload(c echo.Context) error {
	url, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	video, err := s.Download(c.Request().Context(), url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, downloadResult{
		Video:      video,
		TotalLinks: len(video.Links),
	})
}
