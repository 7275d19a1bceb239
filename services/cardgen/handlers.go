package cardgen

import (
	"net/http"
	"toolbox-backend/lib/apiutil"

	"github.com/labstack/echo/v4"
)

type generateResponse struct {
	Status  string   `json:"status"`
	Bin     string   `json:"bin"`
	Amount  int      `json:"amount"`
	Cards   []string `json:"cards"`
	Bank    string   `json:"Bank"`
	Country string   `json:"Country"`
	BinInfo string   `json:"BIN Info"`
}

// Register mounts the generator on the root of `g`.
func (s Service) Register(g *echo.Group) {
	g.GET("", s.handleGenerate)
}

func (s Service) handleGenerate(c echo.Context) error {
	bin, err := apiutil.RequireParam(c, "bin")
	if err != nil {
		return err
	}
	amount, err := apiutil.IntParam(c, "amount", 10, 1, MaxAmount)
	if err != nil {
		return err
	}
	req, err := Parse(bin, c.QueryParam("month"), c.QueryParam("year"), c.QueryParam("cvv"))
	if err != nil {
		return err
	}

	res, err := s.Generate(c.Request().Context(), req, amount)
	if err != nil {
		return err
	}

	cards := make([]string, len(res.Cards))
	for i, card := range res.Cards {
		cards[i] = card.String()
	}
	return c.JSON(http.StatusOK, generateResponse{
		Status:  "success",
		Bin:     req.Pattern,
		Amount:  amount,
		Cards:   cards,
		Bank:    res.Details.Bank,
		Country: res.Details.Country,
		BinInfo: res.Details.Info,
	})
}
