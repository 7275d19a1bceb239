package tts

import (
	"math"
	"net/http"
	"strings"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type langListResponse struct {
	Total     int        `json:"total"`
	Languages []Language `json:"languages"`
}

type accentListResponse struct {
	Total   int                 `json:"total"`
	Accents map[string][]Accent `json:"accents"`
}

type generatedData struct {
	DownloadUrl      string  `json:"download_url"`
	Filename         string  `json:"filename"`
	SizeBytes        int     `json:"size_bytes"`
	SizeKb           float64 `json:"size_kb"`
	Language         string  `json:"language"`
	Accent           string  `json:"accent"`
	Text             string  `json:"text"`
	ExpiresInSeconds int     `json:"expires_in_seconds"`
}

type generateResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    generatedData `json:"data"`
}

// Register wires the speech routes, `baseUrl` prefixes download links and
// falls back to the request's own host when empty.
func (s Service) Register(g *echo.Group, baseUrl string) {
	g.GET("/langlist", s.handleLangList)
	g.GET("/accentlist", s.handleAccentList)
	g.GET("/generate", func(c echo.Context) error {
		return s.handleGenerate(c, baseUrl)
	})
	g.GET("/generated/:filename", s.handleGenerated)
}

func (s Service) handleLangList(c echo.Context) error {
	languages := Languages()
	return c.JSON(http.StatusOK, langListResponse{
		Total:     len(languages),
		Languages: languages,
	})
}

func (s Service) handleAccentList(c echo.Context) error {
	accents := Accents()
	total := 0
	for _, list := range accents {
		total += len(list)
	}
	return c.JSON(http.StatusOK, accentListResponse{
		Total:   total,
		Accents: accents,
	})
}

func (s Service) handleGenerate(c echo.Context, baseUrl string) error {
	text := c.QueryParam("text")
	file, err := s.Generate(
		c.Request().Context(),
		text,
		apiutil.ParamOr(c, "lang", "en"),
		c.QueryParam("accent"),
	)
	if err != nil {
		return err
	}

	if baseUrl == "" {
		baseUrl = c.Scheme() + "://" + c.Request().Host
	}
	return c.JSON(http.StatusOK, generateResponse{
		Success: true,
		Message: "Speech generated successfully",
		Data: generatedData{
			DownloadUrl:      strings.TrimRight(baseUrl, "/") + "/tts/generated/" + file.Filename,
			Filename:         file.Filename,
			SizeBytes:        file.SizeBytes,
			SizeKb:           math.Round(float64(file.SizeBytes)/1024*100) / 100,
			Language:         file.Language,
			Accent:           file.Accent,
			Text:             text,
			ExpiresInSeconds: int(s.expiry.Seconds()),
		},
	})
}

func (s Service) handleGenerated(c echo.Context) error {
	path, err := s.Path(c.Param("filename"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "audio/mpeg")
	return c.Attachment(path, c.Param("filename"))
}
