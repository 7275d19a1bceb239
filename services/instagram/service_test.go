package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const instsavesFragment = `<div class="visolix-results">
	<div class="visolix-media-box">
		<img src="https://cdn.example/preview1.jpg">
		<a class="visolix-download-media" href="https://cdn.example/dl1.mp4">Download Video</a>
	</div>
	<div class="visolix-media-box">
		<img src="https://cdn.example/preview2.jpg">
		<a class="visolix-download-media" href="https://cdn.example/dl2.jpg">Download Image</a>
	</div>
	<div class="visolix-media-box">
		<a class="visolix-download-media" href="">Broken</a>
	</div>
</div>`

func setup(t *testing.T) *Service {
	page := testutil.Fixture(t, "post.html")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /p/{code}/", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("code") != "ABC123" {
			w.Write([]byte("<html><body>login required</body></html>"))
			return
		}
		w.Write(page)
	})
	mux.HandleFunc("POST /wp-json/visolix/api/download", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("content-type", "application/json")
		if body["url"] != "https://www.instagram.com/reel/SAVES1/" {
			w.Write([]byte(`{"status":false}`))
			return
		}
		out, _ := json.Marshal(map[string]any{"status": true, "data": instsavesFragment})
		w.Write(out)
	})
	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("content-type", "application/json")
		switch body["url"] {
		case "https://www.instagram.com/reel/FAST1/":
			w.Write([]byte(`{"success":true,"result":[
				{"type":"Reel","thumbnail":"https://cdn.example/t.jpg","downloadLink":"https://cdn.example/f.mp4"},
				{"type":"image","downloadLink":"https://cdn.example/f.jpg"},
				{"type":"image"}
			]}`))
		case "https://www.instagram.com/reel/DOWN1/":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"success":false}`))
		}
	})
	upstream := testutil.Upstream(t, mux)

	return NewService(Options{
		InstagramBaseUrl: upstream.URL,
		InstsavesBaseUrl: upstream.URL,
		FastdlBaseUrl:    upstream.URL,
	})
}

func TestParsePostPage(t *testing.T) {
	media := parsePostPage(string(testutil.Fixture(t, "post.html")))
	require.Len(t, media, 3)

	require.Equal(t, "video1", media[0].Label)
	require.Equal(t, "https://cdn.example/v1.mp4?efg=1&oh=2", media[0].Download)
	require.NotNil(t, media[0].Thumbnail)
	require.Equal(t, "https://cdn.example/cover.jpg?stp=1", *media[0].Thumbnail)

	require.Equal(t, "image1", media[1].Label)
	require.Equal(t, "https://cdn.example/cover.jpg?stp=1", media[1].Download)
	require.Equal(t, "image2", media[2].Label)
	require.Equal(t, "https://cdn.example/second.jpg", media[2].Download)

	require.Empty(t, parsePostPage("<html></html>"))
}

func TestParseInstsaves(t *testing.T) {
	media, err := parseInstsaves(instsavesFragment)
	require.NoError(t, err)
	require.Len(t, media, 2)
	require.Equal(t, "video1", media[0].Label)
	require.Equal(t, "https://cdn.example/dl1.mp4", media[0].Download)
	require.Equal(t, "https://cdn.example/preview1.jpg", *media[0].Thumbnail)
	require.Equal(t, "image1", media[1].Label)
}

func TestPostPath(t *testing.T) {
	path, err := postPath("https://www.instagram.com/p/ABC123/?igsh=xyz")
	require.NoError(t, err)
	require.Equal(t, "/p/ABC123/?igsh=xyz", path)

	path, err = postPath(" https://instagram.com/reel/R1/ ")
	require.NoError(t, err)
	require.Equal(t, "/reel/R1/", path)

	_, err = postPath("https://example.com/p/ABC123/")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
	_, err = postPath("https://evilinstagram.com/p/ABC123/")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
	_, err = postPath("not a url")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func TestDownload(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	media, err := service.Download(ctx, "https://www.instagram.com/p/ABC123/")
	require.NoError(t, err)
	require.Len(t, media, 3)

	media, err = service.Download(ctx, "https://www.instagram.com/reel/SAVES1/")
	require.NoError(t, err)
	require.Len(t, media, 2)
	require.Equal(t, "https://cdn.example/dl2.jpg", media[1].Download)

	media, err = service.Download(ctx, "https://www.instagram.com/reel/FAST1/")
	require.NoError(t, err)
	require.Len(t, media, 2)
	require.Equal(t, "video1", media[0].Label)
	require.Equal(t, "image1", media[1].Label)
	require.Nil(t, media[1].Thumbnail)

	_, err = service.Download(ctx, "https://www.instagram.com/reel/DOWN1/")
	require.ErrorIs(t, err, apiutil.ErrNotFound)

	_, err = service.Download(ctx, "https://vimeo.com/1")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func TestHandlers(t *testing.T) {
	service := setup(t)
	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	service.Register(e.Group("/insta"))

	rec := testutil.Do(e, http.MethodGet, "/insta/dl?url=https://www.instagram.com/p/ABC123/")
	require.Equal(t, http.StatusOK, rec.Code)
	var body downloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "success", body.Status)
	require.Equal(t, 3, body.MediaCount)

	rec = testutil.Do(e, http.MethodGet, "/insta/dl")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing 'url' parameter")

	rec = testutil.Do(e, http.MethodGet, "/insta/dl?url=https://www.instagram.com/p/NOPE/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Media not found or unsupported")
}
