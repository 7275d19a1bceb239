package weather

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

func (s *Service) Register(g *echo.Group) {
	g.GET("", s.handleWeather)
}

func (s *Service) handleWeather(c echo.Context) error {
	area, err := apiutil.RequireParam(c, "area")
	if err != nil {
		return err
	}
	report, err := s.Weather(c.Request().Context(), area)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
