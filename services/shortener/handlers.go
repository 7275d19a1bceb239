package shortener

import (
	"net/http"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

type shortenResponse struct {
	Success     bool   `json:"success"`
	ShortUrl    string `json:"short_url"`
	OriginalUrl string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	CustomSlug  bool   `json:"custom_slug"`
	TimeTaken   string `json:"time_taken"`
}

type statsResponse struct {
	ShortCode   string `json:"short_code"`
	ShortUrl    string `json:"short_url"`
	OriginalUrl string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   string `json:"created_at"`
	LastClicked string `json:"last_clicked"`
}

type deleteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ShortCode string `json:"short_code"`
}

// Register mounts the shortener under `g`, which is expected to be the
// /shortner group.
func (s Service) Register(g *echo.Group) {
	g.GET("/shorten", s.handleShorten)
	g.GET("/stats/:code", s.handleStats)
	g.GET("/delete/:code", s.handleDelete)
	g.GET("/qr/:code", s.handleQR)
	g.GET("/:code", s.handleRedirect)
}

func (s Service) handleShorten(c echo.Context) error {
	start := time.Now()
	rawUrl, err := apiutil.RequireParam(c, "url")
	if err != nil {
		return err
	}
	res, err := s.Shorten(c.Request().Context(), rawUrl, c.QueryParam("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shortenResponse{
		Success:     true,
		ShortUrl:    res.ShortUrl,
		OriginalUrl: res.OriginalUrl,
		ShortCode:   res.ShortCode,
		CustomSlug:  res.CustomSlug,
		TimeTaken:   apiutil.TimeTaken(start),
	})
}

func (s Service) handleRedirect(c echo.Context) error {
	longUrl, err := s.Resolve(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusMovedPermanently, longUrl)
}

func (s Service) handleStats(c echo.Context) error {
	record, err := s.Stats(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	lastClicked := "Never"
	if record.LastClicked != nil {
		lastClicked = record.LastClicked.UTC().Format(timeLayout)
	}
	return c.JSON(http.StatusOK, statsResponse{
		ShortCode:   record.ShortCode,
		ShortUrl:    s.ShortUrl(record.ShortCode),
		OriginalUrl: record.LongUrl,
		Clicks:      record.Clicks,
		CreatedAt:   record.CreatedAt.UTC().Format(timeLayout),
		LastClicked: lastClicked,
	})
}

func (s Service) handleDelete(c echo.Context) error {
	code, err := s.Delete(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{
		Success:   true,
		Message:   "Short URL deleted successfully",
		ShortCode: code,
	})
}

func (s Service) handleQR(c echo.Context) error {
	size, err := apiutil.IntParam(c, "size", 256, 64, 1024)
	if err != nil {
		return err
	}
	png, err := s.QR(c.Request().Context(), c.Param("code"), size)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
