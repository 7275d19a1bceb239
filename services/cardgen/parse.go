package cardgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"toolbox-backend/lib/apiutil"
)

var separatorRegex = regexp.MustCompile(`[|:/]`)
var nonPatternRegex = regexp.MustCompile(`[^0-9xX]`)

// Request is a parsed generation request, empty fields are randomized per
// card.
type Request struct {
	// digits and `x` placeholders
	Pattern string
	Month   string
	Year    string
	Cvv     string
}

func (r Request) Amex() bool {
	digits := strings.NewReplacer("x", "", "X", "").Replace(r.Pattern)
	return strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37")
}

func (r Request) Length() int {
	if r.Amex() {
		return 15
	}
	return 16
}

func (r Request) CvvLength() int {
	if r.Amex() {
		return 4
	}
	return 3
}

func isRandomToken(s string) bool {
	switch strings.ToLower(s) {
	case "x", "xx", "xxx", "xxxx", "rnd":
		return true
	}
	return false
}

// Parse reads `bin|mm|yy|cvv` where any of `|`, `:` or `/` separate the
// fields. month, year and cvv given explicitly take precedence over the
// ones embedded in the input.
func Parse(input, month, year, cvv string) (Request, error) {
	parts := separatorRegex.Split(strings.TrimSpace(input), -1)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	for i, explicit := range []string{month, year, cvv} {
		explicit = strings.TrimSpace(explicit)
		if explicit != "" {
			parts[i+1] = explicit
		}
	}

	pattern := strings.ToLower(nonPatternRegex.ReplaceAllString(parts[0], ""))
	digitCount := len(strings.ReplaceAll(pattern, "x", ""))
	if digitCount < 6 || digitCount > 16 {
		return Request{}, apiutil.InvalidInput("Invalid BIN: Must be 6-15 digits or up to 16 digits with 'x'")
	}

	req := Request{Pattern: pattern}
	// a full length pattern ending in x reserves that slot for the check digit
	if len(pattern) == req.Length() && strings.HasSuffix(pattern, "x") {
		req.Pattern = pattern[:len(pattern)-1]
	}
	if len(req.Pattern) >= req.Length() {
		return Request{}, apiutil.InvalidInput("Invalid BIN: Must be shorter than the %d digit card number", req.Length())
	}

	if parts[1] != "" && !isRandomToken(parts[1]) {
		m, err := strconv.Atoi(parts[1])
		if err != nil || len(parts[1]) > 2 || m < 1 || m > 12 {
			return Request{}, apiutil.InvalidInput("Invalid month '%s'", parts[1])
		}
		req.Month = fmt.Sprintf("%02d", m)
	}

	if parts[2] != "" && !isRandomToken(parts[2]) {
		y, err := strconv.Atoi(parts[2])
		switch {
		case err != nil:
			return Request{}, apiutil.InvalidInput("Invalid year '%s'", parts[2])
		case len(parts[2]) == 2 && y >= 25:
			req.Year = "20" + parts[2]
		case len(parts[2]) == 4 && y >= 2025 && y <= 2099:
			req.Year = parts[2]
		default:
			return Request{}, apiutil.InvalidInput("Invalid year '%s'", parts[2])
		}
	}

	if parts[3] != "" && !isRandomToken(parts[3]) {
		if _, err := strconv.Atoi(parts[3]); err != nil {
			return Request{}, apiutil.InvalidInput("Invalid CVV '%s'", parts[3])
		}
		if len(parts[3]) != req.CvvLength() {
			if req.Amex() {
				return Request{}, apiutil.InvalidInput("Invalid CVV format: CVV must be 4 digits for AMEX")
			}
			return Request{}, apiutil.InvalidInput("Invalid CVV format: CVV must be 3 digits for non-AMEX")
		}
		req.Cvv = parts[3]
	}

	return req, nil
}
