package social

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/andybalholm/brotli"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const tweetUrl = "https://x.com/example/status/1790000000000000001"

func brotliBytes(t *testing.T, payload string) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte(payload))
	require.Nil(t, err)
	require.Nil(t, w.Close())
	return buf.Bytes()
}

func setup(t *testing.T) *Service {
	compressed := brotliBytes(t, `{"image_urls":[],"video_urls":[{"download_url":"https://cdn.example/t.mp4"}]}`)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/media", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "https://www.threads.net/@user/post/abc":
			w.Header().Set("content-type", "application/json")
			w.Header().Set("content-encoding", "br")
			w.Write(compressed)
		case "https://www.threads.net/@user/post/private":
			w.Header().Set("content-type", "application/json")
			w.Write([]byte(`{"error":"private post"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("GET /en4", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1"})
		w.Write([]byte(`<html><head><meta name="csrf-token" content="tok123"></head></html>`))
	})
	mux.HandleFunc("POST /api/ajaxSearch", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "s1" ||
			r.Header.Get("x-csrf-token") != "tok123" ||
			r.FormValue("_token") != "tok123" ||
			r.FormValue("lang") != "en" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("content-type", "text/html")
		if r.FormValue("q") != tweetUrl {
			w.Write([]byte(`{"status":"error","mess":"not found"}`))
			return
		}
		data, _ := json.Marshal(map[string]string{
			"status": "ok",
			"data":   string(testutil.Fixture(t, "ajax_search.html")),
		})
		w.Write(data)
	})
	upstream := testutil.Upstream(t, mux)

	return NewService(Options{
		ThreadsBaseUrl: upstream.URL,
		TwitterBaseUrl: upstream.URL,
	})
}

func TestThreads(t *testing.T) {
	service := setup(t)

	data, err := service.Threads(context.Background(), "https://www.threads.net/@user/post/abc")
	require.Nil(t, err)
	obj, ok := data.(map[string]any)
	require.True(t, ok)
	require.Len(t, obj["video_urls"], 1)

	_, err = service.Threads(context.Background(), "https://www.threads.net/@user/post/private")
	require.NotNil(t, err)
}

func TestCsrfToken(t *testing.T) {
	require.Equal(t, "a", csrfToken(`<meta name="csrf-token" content="a">`))
	require.Equal(t, "b", csrfToken(`<meta data-x="1" name="csrf-token" content="b">`))
	require.Equal(t, "c", csrfToken(`var k = {_token: 'c'}`))
	require.Equal(t, "", csrfToken(`<html></html>`))
}

func TestTwitter(t *testing.T) {
	service := setup(t)

	tweet, err := service.Twitter(context.Background(), tweetUrl)
	require.Nil(t, err)
	require.Equal(t, "1790000000000000001", *tweet.TwitterId)
	require.Equal(t, "Launch day & more", *tweet.Title)
	require.Equal(t, "0:42", *tweet.Duration)
	require.Equal(t, "https://pbs.twimg.com/amplify_video_thumb/1790/img/abc.jpg", *tweet.Thumbnail)
	require.Equal(t, []TweetVideo{
		{Quality: "720p", Url: "https://dl.snapcdn.app/get?token=720", Type: "video/mp4"},
		{Quality: "360p", Url: "https://dl.snapcdn.app/get?token=360&x=1", Type: "video/mp4"},
	}, tweet.Videos)
	require.Nil(t, tweet.Photo)
	require.Equal(t, "https://dl.snapcdn.app/audio?token=a1", *tweet.Audio)
	require.Equal(t, "1790123456789", *tweet.MediaId)
	require.Equal(t, "tok123", tweet.CsrfTokenUsed)

	_, err = service.Twitter(context.Background(), "https://x.com/missing/status/1")
	require.NotNil(t, err)
}

func TestHandlers(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	setup(t).Register(e.Group("/thrd"))

	rec := testutil.Do(e, http.MethodGet, "/thrd/thd?url=https://www.threads.net/@user/post/abc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"input_url":"https://www.threads.net/@user/post/abc"`)
	require.Contains(t, rec.Body.String(), `"download_url":"https://cdn.example/t.mp4"`)

	rec = testutil.Do(e, http.MethodGet, "/thrd/thd?url=https://www.threads.net/@user/post/private")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to fetch Threads data")

	rec = testutil.Do(e, http.MethodGet, "/thrd/twit?url="+tweetUrl)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"quality":"720p"`)

	rec = testutil.Do(e, http.MethodGet, "/thrd/twit")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
