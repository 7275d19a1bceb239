package instagram

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"toolbox-backend/lib/htmlutil"
)

var (
	videoUrlRegex   = regexp.MustCompile(`"url"\s*:\s*"(https?:\\?/\\?/[^"]*\.mp4[^"]*)"`)
	candidateRegex  = regexp.MustCompile(`"candidates"\s*:\s*\[\s*\{\s*"url"\s*:\s*"([^"]+)"`)
	displayUrlRegex = regexp.MustCompile(`"display_url"\s*:\s*"([^"]+)"`)
)

func findUrls(pattern *regexp.Regexp, page string) []string {
	out := []string{}
	for _, match := range pattern.FindAllStringSubmatch(page, -1) {
		out = appendUnique(out, htmlutil.UnescapeJSONURL(match[1]))
	}
	return out
}

// parsePostPage reads the media urls embedded in a post page's inline
// json.
func parsePostPage(page string) []Media {
	videos := findUrls(videoUrlRegex, page)
	images := findUrls(candidateRegex, page)
	if len(images) == 0 {
		images = findUrls(displayUrlRegex, page)
	}

	var thumbnail *string
	if len(images) > 0 {
		thumbnail = optional(images[0])
	}

	labels := labeler{}
	results := []Media{}
	for _, v := range videos {
		results = append(results, Media{Label: labels.video("video"), Thumbnail: thumbnail, Download: v})
	}
	for _, img := range images {
		if slices.Contains(videos, img) {
			continue
		}
		results = append(results, Media{Label: labels.image(), Thumbnail: thumbnail, Download: img})
	}
	return results
}

func (s *Service) fetchDirect(ctx context.Context, path string) ([]Media, error) {
	res, err := s.instagram.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("post page returned %s", res.Status())
	}
	return parsePostPage(res.String()), nil
}
