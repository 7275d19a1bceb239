package whois

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *atomic.Int32) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/whois/{domain}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.PathValue("domain") != "example.com" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "text/html")
		w.Write(testutil.Fixture(t, "whois_example.html"))
	})
	mux.HandleFunc("/domain/{domain}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.PathValue("domain") != "example.com" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "application/rdap+json")
		w.Write(testutil.Fixture(t, "rdap_example.json"))
	})
	upstream := testutil.Upstream(t, mux)

	return NewService(Options{
		WhoisBaseUrl: upstream.URL,
		RdapBaseUrl:  upstream.URL,
	}), &hits
}

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"example.com", "example.com"},
		{"  Example.COM ", "example.com"},
		{"www.example.co.uk", "example.co.uk"},
		{"example.com.", "example.com"},
	}
	for _, c := range cases {
		out, err := NormalizeDomain(c.input)
		require.Nil(t, err, c.input)
		require.Equal(t, c.expected, out, c.input)
	}

	for _, invalid := range []string{"", "localhost", "exa mple.com", "example.c0m", "http://example.com"} {
		_, err := NormalizeDomain(invalid)
		require.ErrorIs(t, err, apiutil.ErrInvalidInput, invalid)
	}
}

func TestWhois(t *testing.T) {
	service, hits := setup(t)
	ctx := context.Background()

	record, cached, err := service.Whois(ctx, "www.example.com")
	require.Nil(t, err)
	require.False(t, cached)
	require.Equal(t, "example.com", record.Domain)
	require.Equal(t, "RESERVED-Internet Assigned Numbers Authority", record.Registrar)
	require.Equal(t, "376", record.IanaId)
	require.Equal(t, "1995-08-14", record.RegisteredOn)
	require.Equal(t, "2026-08-13", record.ExpiresOn)
	require.Equal(t, "2025-08-14", record.UpdatedOn)
	require.Equal(t, "client delete prohibited\nclient transfer prohibited", record.Status)
	require.Equal(t, []string{"a.iana-servers.net", "b.iana-servers.net"}, record.NameServers)
	require.Equal(t, "CA", record.RegistrantState)
	require.Equal(t, "US", record.RegistrantCountry)
	require.Equal(t, "376", record.RawPairs["iana_id"])

	_, cached, err = service.Whois(ctx, "example.com")
	require.Nil(t, err)
	require.True(t, cached)
	require.Equal(t, int32(1), hits.Load())

	_, _, err = service.Whois(ctx, "missing.org")
	require.ErrorIs(t, err, apiutil.ErrNotFound)
}

func TestRdap(t *testing.T) {
	service, _ := setup(t)

	record, _, err := service.Rdap(context.Background(), "example.com")
	require.Nil(t, err)
	require.Equal(t, "2336799_DOMAIN_COM-VRSN", record.Handle)
	require.Equal(t, "1995-08-14T04:00:00Z", record.Registered)
	require.Equal(t, "2026-08-13T04:00:00Z", record.Expires)
	require.Equal(t, "2025-08-14T07:01:39Z", record.Updated)
	require.Equal(t, []string{"A.IANA-SERVERS.NET", "B.IANA-SERVERS.NET"}, record.NameServers)
	require.Equal(t, RdapRegistrar{
		Name:       "RESERVED-Internet Assigned Numbers Authority",
		IanaId:     "376",
		AbuseEmail: "abuse@iana.org",
		AbusePhone: "tel:+1.3108239358",
	}, record.Registrar)

	_, _, err = service.Rdap(context.Background(), "missing.org")
	require.ErrorIs(t, err, apiutil.ErrNotFound)
}

func TestHandlers(t *testing.T) {
	service, _ := setup(t)
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	service.Register(e.Group("/dmn"))

	rec := testutil.Do(e, http.MethodGet, "/dmn?domain=example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "example.com", body["domain"])
	require.Equal(t, "whois.com", body["source"])
	require.Regexp(t, `^\d+\.\d{2}s$`, body["time_taken"])

	rec = testutil.Do(e, http.MethodGet, "/dmn/rdap?domain=example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"source":"rdap.org"`)

	rec = testutil.Do(e, http.MethodGet, "/dmn")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing 'domain' parameter")

	rec = testutil.Do(e, http.MethodGet, "/dmn?domain=not_a_domain")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
