package instagram

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/instagram")

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

type Options struct {
	InstagramBaseUrl string
	InstsavesBaseUrl string
	FastdlBaseUrl    string
	Output           restyutil.InstrumentOutput
}

type Service struct {
	instagram *resty.Client
	instsaves *resty.Client
	fastdl    *resty.Client
}

func NewService(opts Options) *Service {
	if opts.InstagramBaseUrl == "" {
		opts.InstagramBaseUrl = "https://www.instagram.com"
	}
	if opts.InstsavesBaseUrl == "" {
		opts.InstsavesBaseUrl = "https://instsaves.pro"
	}
	if opts.FastdlBaseUrl == "" {
		opts.FastdlBaseUrl = "https://fastdl.live"
	}

	newClient := func(base, name string) *resty.Client {
		return restyutil.NewClient(restyutil.ClientOptions{
			BaseUrl:    base,
			UserAgent:  desktopUserAgent,
			Timeout:    time.Second * 20,
			TracerName: "services/instagram/" + name,
			Output:     opts.Output,
		})
	}

	instagram := newClient(opts.InstagramBaseUrl, "direct")
	instagram.SetHeaders(map[string]string{
		"accept":                      "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"accept-language":             "en-US,en;q=0.9",
		"dpr":                         "1.5",
		"priority":                    "u=0, i",
		"sec-ch-prefers-color-scheme": "dark",
		"sec-ch-ua":                   `"Chromium";v="142", "Google Chrome";v="142", "Not_A Brand";v="99"`,
		"sec-ch-ua-mobile":            "?0",
		"sec-ch-ua-platform":          `"Windows"`,
		"sec-fetch-dest":              "document",
		"sec-fetch-mode":              "navigate",
		"sec-fetch-site":              "none",
		"sec-fetch-user":              "?1",
		"upgrade-insecure-requests":   "1",
		"viewport-width":              "399",
	})

	return &Service{
		instagram: instagram,
		instsaves: newClient(opts.InstsavesBaseUrl, "instsaves"),
		fastdl:    newClient(opts.FastdlBaseUrl, "fastdl"),
	}
}

// postPath validates an instagram link and returns its path and query.
func postPath(postUrl string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(postUrl))
	if err != nil {
		return "", apiutil.InvalidInput("Only Instagram URLs are supported")
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "instagram.com" && !strings.HasSuffix(host, ".instagram.com") {
		return "", apiutil.InvalidInput("Only Instagram URLs are supported")
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return path, nil
}

type strategy struct {
	name  string
	fetch func(ctx context.Context) ([]Media, error)
}

// Download tries the post page, instsaves and fastdl in order and returns
// the first non empty media list.
func (s *Service) Download(ctx context.Context, postUrl string) ([]Media, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	postUrl = strings.TrimSpace(postUrl)
	path, err := postPath(postUrl)
	if err != nil {
		return nil, err
	}

	strategies := []strategy{
		{"direct", func(ctx context.Context) ([]Media, error) { return s.fetchDirect(ctx, path) }},
		{"instsaves", func(ctx context.Context) ([]Media, error) { return s.fetchInstsaves(ctx, postUrl) }},
		{"fastdl", func(ctx context.Context) ([]Media, error) { return s.fetchFastdl(ctx, postUrl) }},
	}
	for _, st := range strategies {
		media, err := st.fetch(ctx)
		if err != nil {
			slog.DebugContext(ctx, "instagram strategy failed", "strategy", st.name, "err", err)
			continue
		}
		if len(media) > 0 {
			slog.DebugContext(ctx, "instagram strategy succeeded", "strategy", st.name, "count", len(media))
			return media, nil
		}
	}
	return nil, apiutil.NotFound("Media not found or unsupported")
}
