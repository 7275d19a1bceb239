package facebook

import (
	"context"
	"net/http"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/facebook")

const mobileUserAgent = "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Mobile Safari/537.36"

var allowedHosts = []string{"facebook.com", "fb.watch", "fb.com"}

type Options struct {
	BaseUrl string
	Output  restyutil.InstrumentOutput
}

type Service struct {
	client *resty.Client
}

func NewService(opts Options) Service {
	if opts.BaseUrl == "" {
		opts.BaseUrl = "https://ytdownload.in"
	}
	client := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:          opts.BaseUrl,
		UserAgent:        mobileUserAgent,
		Timeout:          time.Second * 45,
		Cookies:          true,
		CloudflareBypass: true,
		TracerName:       "services/facebook/http",
		Output:           opts.Output,
	})
	client.SetHeaders(map[string]string{
		"accept":             "application/json",
		"origin":             opts.BaseUrl,
		"referer":            opts.BaseUrl + "/",
		"sec-ch-ua":          `"Chromium";v="141", "Not;A=Brand";v="99", "Google Chrome";v="141"`,
		"sec-ch-ua-mobile":   "?1",
		"sec-ch-ua-platform": `"Android"`,
	})
	return Service{client: client}
}

type Link struct {
	Quality string `json:"quality"`
	Url     string `json:"url"`
}

type Video struct {
	Title     string `json:"title"`
	Thumbnail any    `json:"thumbnail"`
	Links     []Link `json:"links"`
}

type downloadFormat struct {
	Url          string `json:"url"`
	Resolution   string `json:"resolution"`
	QualityLabel string `json:"qualityLabel"`
}

type downloadResponse struct {
	ResponseFinal *struct {
		Title       string           `json:"title"`
		Thumbnails  any              `json:"thumbnails"`
		Thumbnail   any              `json:"thumbnail"`
		VideoUrl    string           `json:"videoUrl"`
		DownloadUrl string           `json:"downloadUrl"`
		Formats     []downloadFormat `json:"formats"`
	} `json:"responseFinal"`
}

func isFacebookUrl(url string) bool {
	for _, host := range allowedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// uniqueLinks drops repeated urls and keeps the first quality label seen.
func uniqueLinks(links []Link) []Link {
	seen := map[string]bool{}
	out := []Link{}
	for _, l := range links {
		if l.Url == "" || seen[l.Url] {
			continue
		}
		seen[l.Url] = true
		out = append(out, l)
	}
	return out
}

func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	}
	return true
}

func (s Service) Download(ctx context.Context, url string) (Video, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	url = strings.TrimSpace(url)
	if !isFacebookUrl(url) {
		return Video{}, apiutil.InvalidInput("Only Facebook URLs are supported!")
	}

	// the landing page sets the session cookies the api checks
	if _, err := s.client.R().SetContext(ctx).Get("/"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open landing page")
		return Video{}, apiutil.Upstream("Third-party service temporarily down", err)
	}

	var body downloadResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"url":     url,
			"format":  "mp4",
			"quality": "1080p",
		}).
		SetResult(&body).
		Post("/api/allinonedownload")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download request failed")
		return Video{}, apiutil.Upstream("Third-party service temporarily down", err)
	}
	if res.StatusCode() != http.StatusOK {
		return Video{}, apiutil.Upstream("Third-party service temporarily down", nil)
	}
	result := body.ResponseFinal
	if result == nil {
		return Video{}, apiutil.NotFound("Video not found or private")
	}

	links := []Link{}
	if result.VideoUrl != "" {
		links = append(links, Link{Quality: "HD", Url: result.VideoUrl})
	}
	for _, f := range result.Formats {
		quality := f.Resolution
		if quality == "" {
			quality = f.QualityLabel
		}
		if quality == "" {
			quality = "Unknown"
		}
		links = append(links, Link{Quality: quality, Url: f.Url})
	}
	if result.DownloadUrl != "" {
		links = append(links, Link{Quality: "SD", Url: result.DownloadUrl})
	}
	links = uniqueLinks(links)
	if len(links) == 0 {
		return Video{}, apiutil.NotFound("No downloadable links found")
	}

	video := Video{
		Title:     result.Title,
		Thumbnail: result.Thumbnails,
		Links:     links,
	}
	if video.Title == "" {
		video.Title = "Facebook Video"
	}
	if !present(video.Thumbnail) {
		video.Thumbnail = result.Thumbnail
	}
	return video, nil
}
