package youtube

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type searchResponse struct {
	Result []SearchResult `json:"result"`
	Cached bool           `json:"cached"`
}

func (s *Service) Register(g *echo.Group) {
	g.GET("/dl", s.handleDownload)
	g.GET("/search", s.handleSearch)
}

func (s *Service) handleDownload(c echo.Context) error {
	url, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	download, err := s.Download(c.Request().Context(), url)
	if err != nil {
		return err
	}
	if download.Error != "" {
		download.Fields["error"] = download.Error
		return c.JSON(http.StatusInternalServerError, download.Fields)
	}
	return c.JSON(http.StatusOK, download.Fields)
}

func (s *Service) handleSearch(c echo.Context) error {
	query, err := apiutil.RequireParam(c, "query")
	if err != nil {
		return err
	}
	results, cached, err := s.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searchResponse{Result: results, Cached: cached})
}
