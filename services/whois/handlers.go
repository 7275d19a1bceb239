package whois

import (
	"net/http"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type whoisResponse struct {
	Record
	Cached    bool   `json:"cached"`
	TimeTaken string `json:"time_taken"`
	Source    string `json:"source"`
}

type rdapResponse struct {
	RdapRecord
	Cached    bool   `json:"cached"`
	TimeTaken string `json:"time_taken"`
	Source    string `json:"source"`
}

func (s *Service) Register(g *echo.Group) {
	g.GET("", s.handleWhois)
	g.GET("/rdap", s.handleRdap)
}

func (s *Service) handleWhois(c echo.Context) error {
	start := time.Now()
	domain, err := apiutil.RequireParam(c, "domain")
	if err != nil {
		return err
	}
	record, cached, err := s.Whois(c.Request().Context(), domain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, whoisResponse{
		Record:    record,
		Cached:    cached,
		TimeTaken: apiutil.TimeTaken(start),
		Source:    "whois.com",
	})
}

func (s *Service) handleRdap(c echo.Context) error {
	start := time.Now()
	domain, err := apiutil.RequireParam(c, "domain")
	if err != nil {
		return err
	}
	record, cached, err := s.Rdap(c.Request().Context(), domain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rdapResponse{
		RdapRecord: record,
		Cached:     cached,
		TimeTaken:  apiutil.TimeTaken(start),
		Source:     "rdap.org",
	})
}
