package social

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
)

var csrfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<meta name="csrf-token" content="([^"]+)"`),
	regexp.MustCompile(`name="csrf-token" content="([^"]+)"`),
	regexp.MustCompile(`_token["']?\s*[:=]\s*["']([^"']+)`),
}

var (
	tweetTitleRegex    = regexp.MustCompile(`<h3>(.*?)</h3>`)
	tweetDurationRegex = regexp.MustCompile(`<p>(\d+:\d+)</p>`)
	tweetThumbRegex    = regexp.MustCompile(`<img src="(https://pbs\.twimg\.com/[^"]+)"`)
	tweetVideoRegex    = regexp.MustCompile(`href="([^"]+)" rel="nofollow" class="tw-button-dl button dl-success"><i class="icon icon-download"></i> Download MP4 \((\d+p)\)`)
	tweetPhotoRegex    = regexp.MustCompile(`href="([^"]+)" rel="nofollow" class="tw-button-dl button dl-success"><i class="icon icon-download"></i> Download Photo`)
	tweetAudioRegex    = regexp.MustCompile(`data-audioUrl="([^"]+)"`)
	tweetMediaIdRegex  = regexp.MustCompile(`data-mediaId="(\d+)"`)
	tweetIdRegex       = regexp.MustCompile(`id="TwitterId" value="(\d+)"`)
)

func csrfToken(page string) string {
	for _, pattern := range csrfPatterns {
		if match := pattern.FindStringSubmatch(page); match != nil {
			return match[1]
		}
	}
	return ""
}

func submatch(pattern *regexp.Regexp, s string) *string {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	value := html.UnescapeString(strings.TrimSpace(match[1]))
	return &value
}

type TweetVideo struct {
	Quality string `json:"quality"`
	Url     string `json:"url"`
	Type    string `json:"type"`
}

type Tweet struct {
	TweetUrl      string       `json:"tweet_url"`
	TwitterId     *string      `json:"twitter_id"`
	Title         *string      `json:"title"`
	Duration      *string      `json:"duration"`
	Thumbnail     *string      `json:"thumbnail"`
	Videos        []TweetVideo `json:"videos"`
	Photo         *string      `json:"photo"`
	Audio         *string      `json:"audio"`
	MediaId       *string      `json:"media_id"`
	CsrfTokenUsed string       `json:"csrf_token_used"`
	Timestamp     int64        `json:"timestamp"`
}

func parseTweet(tweetUrl, fragment string) Tweet {
	tweet := Tweet{
		TweetUrl:  tweetUrl,
		TwitterId: submatch(tweetIdRegex, fragment),
		Title:     submatch(tweetTitleRegex, fragment),
		Duration:  submatch(tweetDurationRegex, fragment),
		Thumbnail: submatch(tweetThumbRegex, fragment),
		Videos:    []TweetVideo{},
		Photo:     submatch(tweetPhotoRegex, fragment),
		Audio:     submatch(tweetAudioRegex, fragment),
		MediaId:   submatch(tweetMediaIdRegex, fragment),
	}
	for _, match := range tweetVideoRegex.FindAllStringSubmatch(fragment, -1) {
		tweet.Videos = append(tweet.Videos, TweetVideo{
			Quality: match[2],
			Url:     html.UnescapeString(match[1]),
			Type:    "video/mp4",
		})
	}
	return tweet
}

type ajaxSearchResponse struct {
	Status string `json:"status"`
	Data   string `json:"data"`
	Mess   string `json:"mess"`
}

// Twitter scrapes savetwitter.net for the media links of a tweet.
func (s *Service) Twitter(ctx context.Context, tweetUrl string) (Tweet, error) {
	ctx, span := tracer.Start(ctx, "Twitter")
	defer span.End()

	page, err := s.twitter.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"accept":        "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"cache-control": "no-cache",
			"pragma":        "no-cache",
		}).
		Get("/en4")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open savetwitter")
		return Tweet{}, err
	}
	token := csrfToken(page.String())

	form := map[string]string{
		"q":       tweetUrl,
		"lang":    "en",
		"cftoken": "",
	}
	req := s.twitter.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"accept":        "application/json, text/javascript, */*; q=0.01",
			"origin":        s.twitter.BaseURL,
			"referer":       s.twitter.BaseURL + "/en4",
			"cache-control": "no-cache",
			"pragma":        "no-cache",
		})
	if token != "" {
		form["_token"] = token
		req.SetHeader("x-csrf-token", token)
		req.SetHeader("x-requested-with", "XMLHttpRequest")
	}

	var body ajaxSearchResponse
	res, err := req.
		SetFormData(form).
		SetResult(&body).
		ForceContentType("application/json").
		Post("/api/ajaxSearch")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ajax search failed")
		return Tweet{}, err
	}
	if res.StatusCode() != http.StatusOK || body.Status != "ok" {
		return Tweet{}, fmt.Errorf("invalid response from source: %s %s", res.Status(), body.Mess)
	}

	tweet := parseTweet(tweetUrl, body.Data)
	tweet.CsrfTokenUsed = "none"
	if token != "" {
		tweet.CsrfTokenUsed = token
	}
	tweet.Timestamp = time.Now().Unix()
	return tweet, nil
}
