package instagram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type fastdlResponse struct {
	Success bool `json:"success"`
	Result  []struct {
		Type         string `json:"type"`
		Thumbnail    string `json:"thumbnail"`
		DownloadLink string `json:"downloadLink"`
	} `json:"result"`
}

func (s *Service) fetchFastdl(ctx context.Context, postUrl string) ([]Media, error) {
	var body fastdlResponse
	res, err := s.fastdl.R().
		SetContext(ctx).
		SetBody(map[string]string{"url": postUrl}).
		SetResult(&body).
		Post("/api/search")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fastdl returned %s", res.Status())
	}
	if !body.Success {
		return nil, nil
	}

	labels := labeler{}
	results := []Media{}
	for _, item := range body.Result {
		if item.DownloadLink == "" {
			continue
		}
		kind := strings.ToLower(item.Type)
		var label string
		if strings.Contains(kind, "video") || strings.Contains(kind, "reel") {
			label = labels.video("video")
		} else {
			label = labels.image()
		}
		results = append(results, Media{
			Label:     label,
			Thumbnail: optional(item.Thumbnail),
			Download:  item.DownloadLink,
		})
	}
	return results, nil
}
