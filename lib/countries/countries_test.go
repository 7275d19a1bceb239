package countries

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	require.Equal(t, "🇺🇸", Flag("us"))
	require.Equal(t, "🇬🇧", Flag("GB"))
	require.Equal(t, "", Flag("USA"))
	require.Equal(t, "", Flag("1A"))
}

func TestLookup(t *testing.T) {
	cases := []struct {
		input string
		code  string
	}{
		{input: "uk", code: "GB"},
		{input: "United Arab Emirates", code: "AE"},
		{input: "de", code: "DE"},
		{input: "JP", code: "JP"},
		{input: "germany", code: "DE"},
		{input: "Germny", code: "DE"},
		{input: "india", code: "IN"},
		{input: "Bangla", code: "BD"},
	}
	for _, c := range cases {
		country, err := Lookup(c.input)
		require.Nil(t, err, c.input)
		require.Equal(t, c.code, country.Code, c.input)
		require.NotEmpty(t, country.Name)
		require.Equal(t, Flag(c.code), country.Flag)
	}

	_, err := Lookup("qqqqqqqq")
	require.ErrorIs(t, err, ErrUnknownCountry)
	_, err = Lookup("  ")
	require.ErrorIs(t, err, ErrUnknownCountry)
}

func TestName(t *testing.T) {
	require.Equal(t, "Germany", Name("de"))
	require.Equal(t, "Unknown", Name("ZZ"))
}
