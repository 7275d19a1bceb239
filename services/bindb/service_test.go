package bindb

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"
	"toolbox-backend/services/bindb/db"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const fixtureCsv = `BIN,Brand,Type,Category,Issuer,isoCode2,CountryName
411111,visa,credit,classic,JPMorgan Chase Bank,US,United States
41111122,visa,debit,platinum,Chase Private Client,US,
424242,VISA,CREDIT,CLASSIC,Stripe Test Bank,GB,
371449,amex,credit,gold,American Express,,United States
12,short,credit,,Broken Row,US,
`

func setup(t testing.TB) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/bindb",
		DbSchema: db.Schema,
	})
	service := NewService(res.DB)

	count, err := service.Import(context.Background(), strings.NewReader(fixtureCsv))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 4, count)

	return service, cleanup
}

func TestLookup(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	{
		// no 7 or 8 digit prefix exists, so the 6 digit row is the most specific
		info, err := service.Lookup(ctx, "4111 1111 1111 1111")
		require.Nil(t, err)
		diff := cmp.Diff(Info{
			Bin:         "411111",
			Brand:       "VISA",
			Type:        "CREDIT",
			Level:       "CLASSIC",
			Issuer:      "JPMorgan Chase Bank",
			CountryCode: "US",
			CountryName: "United States",
			CountryFlag: "🇺🇸",
		}, info)
		require.Empty(t, diff)
	}

	{
		info, err := service.Lookup(ctx, "41111122")
		require.Nil(t, err)
		require.Equal(t, "41111122", info.Bin)
		require.Equal(t, "United States", info.CountryName)
	}

	{
		info, err := service.Lookup(ctx, "371449635398431")
		require.Nil(t, err)
		require.Equal(t, "US", info.CountryCode)
		require.Equal(t, "AMEX", info.Brand)
	}

	{
		_, err := service.Lookup(ctx, "5555")
		require.ErrorIs(t, err, apiutil.ErrInvalidInput)
		_, err = service.Lookup(ctx, "999999")
		require.ErrorIs(t, err, apiutil.ErrNotFound)
	}
}

func TestByCountryAndBank(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	results, err := service.ByCountry(ctx, "uk", 10)
	require.Nil(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "424242", results[0].Bin)
	require.Equal(t, "🇬🇧", results[0].CountryFlag)

	results, err = service.ByCountry(ctx, "US", 2)
	require.Nil(t, err)
	require.Len(t, results, 2)

	_, err = service.ByCountry(ctx, "JP", 10)
	require.ErrorIs(t, err, apiutil.ErrNotFound)

	results, err = service.ByBank(ctx, "chase", 10)
	require.Nil(t, err)
	require.Len(t, results, 2)

	_, err = service.ByBank(ctx, "nonexistent bank", 10)
	require.ErrorIs(t, err, apiutil.ErrNotFound)
}

func TestHandlers(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()

	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	service.Register(e.Group("/bindb"))

	rec := testutil.Do(e, http.MethodGet, "/bindb/bin")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/bindb/bin?num=424242")
	require.Equal(t, http.StatusOK, rec.Code)
	var lookup lookupResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &lookup))
	require.Equal(t, "Stripe Test Bank", lookup.Data[0].Issuer)

	rec = testutil.Do(e, http.MethodGet, "/bindb/bin?bank=chase&amount=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.TotalResults)

	rec = testutil.Do(e, http.MethodGet, "/bindb/bin?country=JP")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
