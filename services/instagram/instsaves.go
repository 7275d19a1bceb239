package instagram

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type instsavesResponse struct {
	Status bool   `json:"status"`
	Data   string `json:"data"`
}

func parseInstsaves(fragment string) ([]Media, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	labels := labeler{}
	results := []Media{}
	doc.Find(".visolix-media-box").Each(func(_ int, box *goquery.Selection) {
		link := box.Find("a.visolix-download-media[href]").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		preview, _ := box.ChildrenFiltered("img").First().Attr("src")

		text := strings.ToLower(strings.TrimSpace(link.Text()))
		var label string
		switch {
		case strings.Contains(text, "video"), strings.Contains(text, "igtv"), strings.Contains(text, "reel"):
			label = labels.video("video")
		case strings.Contains(text, "image"), strings.Contains(text, "photo"):
			label = labels.image()
		case strings.Contains(text, "story"):
			label = labels.video("story_video")
		default:
			label = fmt.Sprintf("media%d", len(results)+1)
		}
		results = append(results, Media{
			Label:     label,
			Thumbnail: optional(preview),
			Download:  href,
		})
	})
	return results, nil
}

func (s *Service) fetchInstsaves(ctx context.Context, postUrl string) ([]Media, error) {
	var body instsavesResponse
	res, err := s.instsaves.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"url":              postUrl,
			"format":           "",
			"captcha_response": nil,
		}).
		SetResult(&body).
		Post("/wp-json/visolix/api/download")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("instsaves returned %s", res.Status())
	}
	if !body.Status || body.Data == "" {
		return nil, nil
	}
	return parseInstsaves(body.Data)
}
