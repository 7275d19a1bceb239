package coupons

import (
	"net/http"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type couponsResponse struct {
	Store     string   `json:"store"`
	TimeTaken string   `json:"time_taken"`
	Total     int      `json:"total"`
	Results   []Coupon `json:"results"`
}

func (s *Service) Register(g *echo.Group) {
	g.GET("", s.handleCoupons)
}

func (s *Service) handleCoupons(c echo.Context) error {
	site, err := apiutil.RequireParam(c, "site")
	if err != nil {
		return err
	}

	start := time.Now()
	ctx := c.Request().Context()
	store, err := s.ResolveStore(ctx, site)
	if err != nil {
		return err
	}
	coupons, err := s.Coupons(ctx, store)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, couponsResponse{
		Store:     store.Name,
		TimeTaken: apiutil.TimeTaken(start),
		Total:     len(coupons),
		Results:   coupons,
	})
}
