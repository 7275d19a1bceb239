package worldtime

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type timeResponse struct {
	Success bool        `json:"success"`
	Data    CountryTime `json:"data"`
}

func (s Service) Register(g *echo.Group) {
	g.GET("", s.handleTime)
}

func (s Service) handleTime(c echo.Context) error {
	country, err := apiutil.RequireParam(c, "country")
	if err != nil {
		return err
	}
	data, err := s.Lookup(c.Request().Context(), country)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timeResponse{Success: true, Data: data})
}
