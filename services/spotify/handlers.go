package spotify

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type downloadResponse struct {
	Status string `json:"status"`
	DownloadResult
}

type searchResponse struct {
	Status  string         `json:"status"`
	Results []SearchResult `json:"results"`
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
	result, err := s.Download(c.Request().Context(), url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, downloadResponse{Status: "success", DownloadResult: result})
}

func (s *Service) handleSearch(c echo.Context) error {
	query, err := apiutil.RequireParam(c, "q")
	if err != nil {
		return err
	}
	results, err := s.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searchResponse{Status: "success", Results: results})
}
