package ai

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type geminiResponse struct {
	Success bool `json:"success"`
	GeminiAnswer
}

type perplexityResponse struct {
	Status string `json:"status"`
	PerplexityAnswer
}

func (s *Service) Register(g *echo.Group) {
	g.GET("/gem", s.handleGemini)
	g.GET("/pplxty", s.handlePerplexity)
}

func (s *Service) handleGemini(c echo.Context) error {
	prompt, err := apiutil.RequireParam(c, "prompt")
	if err != nil {
		return err
	}
	answer, err := s.Gemini(c.Request().Context(), prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, geminiResponse{Success: true, GeminiAnswer: answer})
}

func (s *Service) handlePerplexity(c echo.Context) error {
	prompt, err := apiutil.RequireParam(c, "prompt")
	if err != nil {
		return err
	}
	answer, err := s.Perplexity(c.Request().Context(), prompt, PerplexityOptions{
		Mode:        apiutil.ParamOr(c, "mode", "concise"),
		Model:       apiutil.ParamOr(c, "model", "turbo"),
		SearchFocus: apiutil.ParamOr(c, "search_focus", "internet"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perplexityResponse{Status: "success", PerplexityAnswer: answer})
}
