package cardgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type Card struct {
	Number string
	Month  string
	Year   string
	Cvv    string
}

func (c Card) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", c.Number, c.Month, c.Year, c.Cvv)
}

func randomDigits(r *rand.Rand, n int) string {
	var out strings.Builder
	for range n {
		out.WriteByte(byte('0' + r.IntN(10)))
	}
	return out.String()
}

// Generate produces `amount` Luhn valid test cards following the
// request's pattern.
func Generate(r *rand.Rand, req Request, amount int) []Card {
	length := req.Length()
	cards := make([]Card, 0, amount)
	for range amount {
		var body strings.Builder
		for _, c := range req.Pattern {
			if c == 'x' {
				body.WriteByte(byte('0' + r.IntN(10)))
				continue
			}
			body.WriteRune(c)
		}
		body.WriteString(randomDigits(r, length-1-body.Len()))

		partial := body.String()
		card := Card{
			Number: partial + string(LuhnCheckDigit(partial)),
			Month:  req.Month,
			Year:   req.Year,
			Cvv:    req.Cvv,
		}
		if card.Month == "" {
			card.Month = fmt.Sprintf("%02d", 1+r.IntN(12))
		}
		if card.Year == "" {
			card.Year = fmt.Sprint(2025 + r.IntN(11))
		}
		if card.Cvv == "" {
			card.Cvv = randomDigits(r, req.CvvLength())
		}
		cards = append(cards, card)
	}
	return cards
}
