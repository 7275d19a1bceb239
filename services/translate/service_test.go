package translate

import (
	"context"
	"net/http"
	"testing"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) Service {
	upstream := testutil.Upstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/translate_a/single" || q.Get("client") != "gtx" || q.Get("dt") != "t" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if q.Get("tl") == "ja" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`[[["Hola. ","Hello. ",null,null,10],["¿Cómo estás?","How are you?",null,null,10]],null,"en",null,null,null,null,[]]`))
	}))
	return NewService(Options{BaseUrl: upstream.URL})
}

func TestTranslate(t *testing.T) {
	service := setup(t)

	result, err := service.Translate(context.Background(), "Hello. How are you?", "ES")
	require.Nil(t, err)
	require.Equal(t, Translation{
		TranslatedText: "Hola. ¿Cómo estás?",
		SourceLang:     "en",
		TargetLang:     "es",
	}, result)

	_, err = service.Translate(context.Background(), "Hello", "xx")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)

	_, err = service.Translate(context.Background(), "Hello", "ja")
	require.ErrorIs(t, err, apiutil.ErrUpstream)
}

func TestParseSingle(t *testing.T) {
	text, source, err := parseSingle([]byte(`[[["a","b"],[null,null,"x"]],null,"fr"]`))
	require.Nil(t, err)
	require.Equal(t, "a", text)
	require.Equal(t, "fr", source)

	_, _, err = parseSingle([]byte(`<html>`))
	require.NotNil(t, err)
}

func TestHandlers(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	setup(t).Register(e.Group("/tr"))

	rec := testutil.Do(e, http.MethodGet, "/tr?text=Hello&lang=es")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"translated_text":"Hola. ¿Cómo estás?"`)

	rec = testutil.Do(e, http.MethodGet, "/tr?lang=es")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/tr?text=Hi&lang=klingon")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid language code")

	rec = testutil.Do(e, http.MethodGet, "/tr/langs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"zh-cn":"chinese (simplified)"`)
}
