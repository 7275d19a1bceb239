package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type speechRequest struct {
	lang  string
	chunk string
	idx   string
	total string
}

func setup(t *testing.T, expiry time.Duration) (Service, *[]speechRequest) {
	var mutex sync.Mutex
	requests := []speechRequest{}
	upstream := testutil.Upstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/translate_tts" || q.Get("client") != "tw-ob" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		mutex.Lock()
		requests = append(requests, speechRequest{
			lang:  q.Get("tl"),
			chunk: q.Get("q"),
			idx:   q.Get("idx"),
			total: q.Get("total"),
		})
		mutex.Unlock()
		w.Header().Set("content-type", "audio/mpeg")
		w.Write([]byte("ID3" + q.Get("idx")))
	}))

	service, err := NewService(Options{
		HostTemplate: upstream.URL,
		Dir:          t.TempDir(),
		Expiry:       expiry,
	})
	require.Nil(t, err)
	return service, &requests
}

func TestSplitText(t *testing.T) {
	require.Nil(t, splitText("   ", 10))
	require.Equal(t, []string{"hello"}, splitText("hello", 10))
	require.Equal(t, []string{"one two", "three four", "five"}, splitText("one two three four five", 10))
	require.Equal(t, []string{"abcdefghij", "klm xy"}, splitText("abcdefghijklm xy", 10))

	long := strings.Repeat("word ", 60)
	for _, chunk := range splitText(long, maxChunkLength) {
		require.LessOrEqual(t, len(chunk), maxChunkLength)
	}
}

func TestResolveLanguage(t *testing.T) {
	code, err := ResolveLanguage("FR")
	require.Nil(t, err)
	require.Equal(t, "fr", code)

	code, err = ResolveLanguage("zh-cn")
	require.Nil(t, err)
	require.Equal(t, "zh-CN", code)

	code, err = ResolveLanguage("german")
	require.Nil(t, err)
	require.Equal(t, "de", code)

	code, err = ResolveLanguage("")
	require.Nil(t, err)
	require.Equal(t, "en", code)

	_, err = ResolveLanguage("zz")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func TestResolveTld(t *testing.T) {
	tld, err := resolveTld("en", "")
	require.Nil(t, err)
	require.Equal(t, "com", tld)

	tld, err = resolveTld("en", "co.uk")
	require.Nil(t, err)
	require.Equal(t, "co.uk", tld)

	_, err = resolveTld("en", "fr")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)

	_, err = resolveTld("de", "de")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func TestGenerate(t *testing.T) {
	service, requests := setup(t, time.Millisecond*100)

	text := strings.Repeat("hello world ", 20)
	file, err := service.Generate(context.Background(), text, "en", "co.uk")
	require.Nil(t, err)
	require.Regexp(t, filenameRegex, file.Filename)
	require.Equal(t, "co.uk", file.Accent)
	require.Len(t, *requests, 3)
	require.Equal(t, "3", (*requests)[0].total)
	require.Equal(t, "2", (*requests)[2].idx)

	path, err := service.Path(file.Filename)
	require.Nil(t, err)
	contents, err := os.ReadFile(path)
	require.Nil(t, err)
	require.Equal(t, "ID30ID31ID32", string(contents))
	require.Equal(t, len(contents), file.SizeBytes)

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, time.Second*2, time.Millisecond*20)

	_, err = service.Path(file.Filename)
	require.ErrorIs(t, err, apiutil.ErrNotFound)

	_, err = service.Path("../" + filepath.Base(path))
	require.ErrorIs(t, err, apiutil.ErrNotFound)
}

func TestSweep(t *testing.T) {
	service, _ := setup(t, time.Minute)
	now := time.Now()

	write := func(name string, age time.Duration) string {
		path := filepath.Join(service.dir, name)
		require.NoError(t, os.WriteFile(path, []byte("ID3"), 0644))
		require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
		return path
	}
	stale := write("tts_stale1.mp3", time.Hour)
	fresh := write("tts_fresh1.mp3", time.Second)
	other := write("notes.txt", time.Hour)

	removed, err := service.Sweep(now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	require.FileExists(t, fresh)
	require.FileExists(t, other)
}

func TestHandlers(t *testing.T) {
	service, _ := setup(t, time.Minute)
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	service.Register(e.Group("/tts"), "https://api.example")

	rec := testutil.Do(e, http.MethodGet, "/tts/langlist")
	require.Equal(t, http.StatusOK, rec.Code)
	var langs langListResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &langs))
	require.Equal(t, len(languageNames), langs.Total)

	rec = testutil.Do(e, http.MethodGet, "/tts/accentlist")
	require.Equal(t, http.StatusOK, rec.Code)
	var accents accentListResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &accents))
	require.Equal(t, 15, accents.Total)
	require.Equal(t, "🇦🇺", accents.Accents["en"][0].Flag)

	rec = testutil.Do(e, http.MethodGet, "/tts/generate?text=hello&lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	var generated generateResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	require.Equal(t, "default", generated.Data.Accent)
	require.Equal(t, 60, generated.Data.ExpiresInSeconds)
	require.Equal(t, "https://api.example/tts/generated/"+generated.Data.Filename, generated.Data.DownloadUrl)

	rec = testutil.Do(e, http.MethodGet, "/tts/generated/"+generated.Data.Filename)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/mpeg", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "ID30", rec.Body.String())

	rec = testutil.Do(e, http.MethodGet, "/tts/generate?lang=en")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Text parameter is required")

	rec = testutil.Do(e, http.MethodGet, "/tts/generated/tts_missing.mp3")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
