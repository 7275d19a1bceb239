package shortener

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"
	"toolbox-backend/services/shortener/db"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/shortener",
		DbSchema: db.Schema,
	})
	service := NewService(NewSqlStore(res.DB), "https://short.example/")
	return service, cleanup
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("https://example.com")
	require.Len(t, code, 6)
	require.Equal(t, code, GenerateCode("https://example.com"))
	require.Regexp(t, `^[0-9A-F]{6}$`, code)
}

func TestNormalizeUrl(t *testing.T) {
	out, err := NormalizeUrl("example.com/path")
	require.Nil(t, err)
	require.Equal(t, "https://example.com/path", out)

	out, err = NormalizeUrl("http://example.com")
	require.Nil(t, err)
	require.Equal(t, "http://example.com", out)

	out, err = NormalizeUrl("HTTPS://Example.COM:443/a%7eb?")
	require.Nil(t, err)
	require.Equal(t, "https://example.com/a~b", out)

	_, err = NormalizeUrl("https://")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
	_, err = NormalizeUrl("ftp://example.com/file")
	require.ErrorIs(t, err, apiutil.ErrInvalidInput)
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	record, ok, err := store.Create(ctx, Record{
		ShortCode: "ABC123",
		LongUrl:   "https://example.com",
		CreatedAt: created,
	})
	require.Nil(t, err)
	require.True(t, ok)
	require.Equal(t, int64(0), record.Clicks)
	require.Nil(t, record.LastClicked)

	record, ok, err = store.Create(ctx, Record{
		ShortCode: "ABC123",
		LongUrl:   "https://other.example",
		CreatedAt: created,
	})
	require.Nil(t, err)
	require.False(t, ok)
	require.Equal(t, "https://example.com", record.LongUrl)

	clicked := created.Add(time.Hour)
	record, err = store.RecordClick(ctx, "ABC123", clicked)
	require.Nil(t, err)
	require.Equal(t, int64(1), record.Clicks)
	require.NotNil(t, record.LastClicked)
	require.True(t, clicked.Equal(*record.LastClicked))

	_, err = store.RecordClick(ctx, "MISSING", clicked)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := store.List(ctx, 10)
	require.Nil(t, err)
	require.Len(t, list, 1)
	require.True(t, created.Equal(list[0].CreatedAt))

	require.Nil(t, store.Delete(ctx, "ABC123"))
	require.ErrorIs(t, store.Delete(ctx, "ABC123"), ErrNotFound)
	_, err = store.Get(ctx, "ABC123")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSqlStore(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/shortener",
		DbSchema: db.Schema,
	})
	defer cleanup()
	testStore(t, NewSqlStore(res.DB))
}

func TestShorten(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	{
		res, err := service.Shorten(ctx, "example.com", "")
		require.Nil(t, err)
		require.Equal(t, "https://example.com", res.OriginalUrl)
		require.Equal(t, GenerateCode("https://example.com"), res.ShortCode)
		require.Equal(t, "https://short.example/shortner/"+res.ShortCode, res.ShortUrl)
		require.False(t, res.CustomSlug)
		require.True(t, res.Created)

		again, err := service.Shorten(ctx, "https://example.com", "")
		require.Nil(t, err)
		require.Equal(t, res.ShortCode, again.ShortCode)
		require.False(t, again.Created)
	}

	{
		res, err := service.Shorten(ctx, "https://go.dev", "my-link")
		require.Nil(t, err)
		require.Equal(t, "MY-LINK", res.ShortCode)
		require.True(t, res.CustomSlug)

		_, err = service.Shorten(ctx, "https://go.dev", "MY-LINK")
		require.Nil(t, err)

		_, err = service.Shorten(ctx, "https://rust-lang.org", "my-link")
		require.ErrorIs(t, err, apiutil.ErrConflict)
	}

	{
		_, err := service.Shorten(ctx, "https://go.dev", "ab")
		require.ErrorIs(t, err, apiutil.ErrInvalidInput)
		_, err = service.Shorten(ctx, "https://go.dev", "bad slug!")
		require.ErrorIs(t, err, apiutil.ErrInvalidInput)
	}
}

func TestConcurrentClicks(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	res, err := service.Shorten(ctx, "https://example.com/concurrent", "")
	require.Nil(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Resolve(ctx, res.ShortCode)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.Nil(t, err)
	}

	stats, err := service.Stats(ctx, res.ShortCode)
	require.Nil(t, err)
	require.Equal(t, int64(20), stats.Clicks)
}

func TestHandlers(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()

	e := echo.New()
	e.HTTPErrorHandler = apiutil.ErrorHandler
	service.Register(e.Group("/shortner"))

	rec := testutil.Do(e, http.MethodGet, "/shortner/shorten?url=example.com&slug=docs")
	require.Equal(t, http.StatusOK, rec.Code)
	var shortened shortenResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &shortened))
	require.True(t, shortened.Success)
	require.Equal(t, "DOCS", shortened.ShortCode)
	require.True(t, shortened.CustomSlug)

	rec = testutil.Do(e, http.MethodGet, "/shortner/shorten")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/shortner/docs")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Location"))

	rec = testutil.Do(e, http.MethodGet, "/shortner/stats/DOCS")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats statsResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.Clicks)
	require.NotEqual(t, "Never", stats.LastClicked)
	require.Equal(t, "https://short.example/shortner/DOCS", stats.ShortUrl)

	rec = testutil.Do(e, http.MethodGet, "/shortner/qr/DOCS")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])

	rec = testutil.Do(e, http.MethodGet, "/shortner/stats/bad.code")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/shortner/delete/DOCS")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/shortner/delete/DOCS")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.Do(e, http.MethodGet, "/shortner/DOCS")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
