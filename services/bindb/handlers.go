package bindb

import (
	"net/http"
	"strings"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type listResponse struct {
	Results      []Info `json:"results"`
	TotalResults int    `json:"total_results"`
}

type lookupResponse struct {
	Status string `json:"status"`
	Data   []Info `json:"data"`
	Count  int    `json:"count"`
}

func (s Service) Register(g *echo.Group) {
	g.GET("/bin", s.handleBin)
}

func (s Service) handleBin(c echo.Context) error {
	ctx := c.Request().Context()
	amount, err := apiutil.IntParam(c, "amount", 1000, 1, 10000)
	if err != nil {
		return err
	}

	if num := strings.TrimSpace(c.QueryParam("num")); num != "" {
		info, err := s.Lookup(ctx, num)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, lookupResponse{
			Status: "SUCCESS",
			Data:   []Info{info},
			Count:  1,
		})
	}

	var results []Info
	switch {
	case strings.TrimSpace(c.QueryParam("country")) != "":
		results, err = s.ByCountry(ctx, c.QueryParam("country"), amount)
	case strings.TrimSpace(c.QueryParam("bank")) != "":
		results, err = s.ByBank(ctx, c.QueryParam("bank"), amount)
	default:
		return apiutil.InvalidInput("At least one of country, bank, or num parameters is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Results:      results,
		TotalResults: len(results),
	})
}
