package youtube

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/lookupcache"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/youtube")

const maxSearchResults = 10

type Options struct {
	SiteBaseUrl   string
	CliptoBaseUrl string
	Output        restyutil.InstrumentOutput
}

type Service struct {
	site   *resty.Client
	clipto *resty.Client

	searches *lookupcache.Cache[[]SearchResult]
}

func NewService(opts Options) *Service {
	if opts.SiteBaseUrl == "" {
		opts.SiteBaseUrl = "https://www.youtube.com"
	}
	if opts.CliptoBaseUrl == "" {
		opts.CliptoBaseUrl = "https://www.clipto.com"
	}

	site := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    opts.SiteBaseUrl,
		Timeout:    time.Second * 15,
		TracerName: "services/youtube/site",
		Output:     opts.Output,
	})
	site.SetHeaders(map[string]string{
		"accept-language": "en-US,en;q=0.9",
		"cookie":          "CONSENT=YES+1",
	})

	return &Service{
		site: site,
		clipto: restyutil.NewClient(restyutil.ClientOptions{
			BaseUrl:    opts.CliptoBaseUrl,
			Timeout:    time.Second * 30,
			TracerName: "services/youtube/clipto",
			Output:     opts.Output,
		}),
		searches: lookupcache.New[[]SearchResult](256, time.Minute*10),
	}
}

// Download is the merged video details and clipto download answer. When
// clipto fails Error is set and the details are still returned.
type Download struct {
	Fields map[string]any
	Error  string
}

func (s *Service) Download(ctx context.Context, url string) (Download, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	id, ok := VideoId(url)
	if !ok {
		return Download{}, apiutil.InvalidInput("Invalid YouTube URL.")
	}
	standardUrl := "https://www.youtube.com/watch?v=" + id

	details, err := s.details(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "failed to read video details", "id", id, "err", err)
		details = unavailableDetails(id)
	}

	fields := map[string]any{
		"title":         details.Title,
		"channel":       details.Channel,
		"description":   details.Description,
		"tags":          details.Tags,
		"thumbnail":     details.ImageUrl,
		"thumbnail_url": thumbnailUrl(id),
		"url":           standardUrl,
		"duration":      details.Duration,
		"views":         details.Views,
	}

	var clipto map[string]any
	res, err := s.clipto.R().
		SetContext(ctx).
		SetBody(map[string]string{"url": standardUrl}).
		SetResult(&clipto).
		Post("/api/youtube")
	if err != nil || res.StatusCode() != http.StatusOK || clipto == nil {
		if err != nil {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "clipto request failed")
		return Download{Fields: fields, Error: "Failed to fetch download URL from Clipto API."}, nil
	}

	for key, value := range clipto {
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}
	if title, ok := clipto["title"].(string); ok && title != "" {
		fields["title"] = html.UnescapeString(title)
	}
	if thumbnail, ok := clipto["thumbnail"].(string); ok && thumbnail != "" {
		fields["thumbnail"] = thumbnail
	}
	if link, ok := clipto["url"].(string); ok && link != "" {
		fields["url"] = link
	}
	return Download{Fields: fields}, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, bool, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	return s.searches.Get(ctx, key, func(ctx context.Context) ([]SearchResult, error) {
		results, err := s.search(ctx, query)
		if err != nil {
			return nil, apiutil.Upstream("Failed to fetch search data.", err)
		}
		if len(results) == 0 {
			return nil, apiutil.NotFound("No videos found for the provided query.")
		}
		return results, nil
	})
}
