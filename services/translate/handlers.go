package translate

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

func (s Service) Register(g *echo.Group) {
	g.GET("", s.handleTranslate)
	g.GET("/langs", s.handleLangs)
}

func (s Service) handleTranslate(c echo.Context) error {
	text, err := apiutil.RequireParam(c, "text")
	if err != nil {
		return err
	}
	translation, err := s.Translate(
		c.Request().Context(),
		text,
		apiutil.ParamOr(c, "lang", "en"),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, translation)
}

func (s Service) handleLangs(c echo.Context) error {
	return c.JSON(http.StatusOK, Languages)
}
