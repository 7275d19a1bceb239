package countries

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"toolbox-backend/lib/textutil"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var ErrUnknownCountry = errors.New("invalid country code or name")

type Country struct {
	Code string
	Name string
	Flag string
}

var aliases = map[string]string{
	"uk":                    "GB",
	"unitedkingdom":         "GB",
	"england":               "GB",
	"uae":                   "AE",
	"unitedarabemirates":    "AE",
	"usa":                   "US",
	"america":               "US",
	"unitedstatesofamerica": "US",
}

var (
	loadOnce sync.Once
	all      []Country
	byCode   map[string]Country
)

func load() {
	namer := display.English.Regions()
	byCode = map[string]Country{}
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			region, err := language.ParseRegion(code)
			if err != nil || !region.IsCountry() || region.String() != code {
				continue
			}
			name := namer.Name(region)
			if name == "" {
				continue
			}
			c := Country{Code: code, Name: name, Flag: Flag(code)}
			all = append(all, c)
			byCode[code] = c
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
}

// All returns every ISO 3166 country known to CLDR, sorted by code.
func All() []Country {
	loadOnce.Do(load)
	return all
}

// ByCode returns the country of an alpha-2 code, case-insensitive.
func ByCode(code string) (Country, bool) {
	loadOnce.Do(load)
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Name returns the english name of a country code or "Unknown".
func Name(code string) string {
	c, ok := ByCode(code)
	if !ok {
		return "Unknown"
	}
	return c.Name
}

// Flag converts an alpha-2 code into its regional indicator emoji.
func Flag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var out strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		out.WriteRune(0x1F1E6 + c - 'A')
	}
	return out.String()
}

// Lookup resolves user input into a country. aliases are tried first,
// then exact alpha-2 codes, then a fuzzy match on english names.
func Lookup(input string) (Country, error) {
	normalized := textutil.NormalizeName(input)
	if normalized == "" {
		return Country{}, ErrUnknownCountry
	}
	if code, ok := aliases[normalized]; ok {
		c, _ := ByCode(code)
		return c, nil
	}
	if len(normalized) == 2 {
		if c, ok := ByCode(normalized); ok {
			return c, nil
		}
	}

	countries := All()
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.Name
		if strings.HasPrefix(textutil.NormalizeName(c.Name), normalized) && len(normalized) >= 4 {
			return c, nil
		}
	}
	idx, _ := textutil.BestMatch(input, names, 0.85)
	if idx < 0 {
		return Country{}, ErrUnknownCountry
	}
	return countries[idx], nil
}
