package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"toolbox-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

type thumbnailList struct {
	Thumbnails []struct {
		Url string `json:"url"`
	} `json:"thumbnails"`
}

func (t thumbnailList) last() string {
	if len(t.Thumbnails) == 0 {
		return ""
	}
	return t.Thumbnails[len(t.Thumbnails)-1].Url
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoId          string        `json:"videoId"`
		Title            string        `json:"title"`
		LengthSeconds    string        `json:"lengthSeconds"`
		Keywords         []string      `json:"keywords"`
		ShortDescription string        `json:"shortDescription"`
		Author           string        `json:"author"`
		ViewCount        string        `json:"viewCount"`
		Thumbnail        thumbnailList `json:"thumbnail"`
	} `json:"videoDetails"`
}

type Details struct {
	Title       string   `json:"title"`
	Channel     string   `json:"channel"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ImageUrl    string   `json:"imageUrl"`
	Duration    string   `json:"duration"`
	Views       string   `json:"views"`
}

func thumbnailUrl(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

func unavailableDetails(id string) Details {
	return Details{
		Title:       "Unavailable",
		Channel:     "N/A",
		Description: "N/A",
		Tags:        []string{},
		ImageUrl:    thumbnailUrl(id),
		Duration:    "N/A",
		Views:       "N/A",
	}
}

func (s *Service) fetchPage(ctx context.Context, path string, query map[string]string) (string, error) {
	res, err := s.site.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("youtube returned %s", res.Status())
	}
	return res.String(), nil
}

// details reads the player response embedded in a watch page.
func (s *Service) details(ctx context.Context, id string) (Details, error) {
	ctx, span := tracer.Start(ctx, "details")
	defer span.End()

	page, err := s.fetchPage(ctx, "/watch", map[string]string{"v": id})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch watch page")
		return Details{}, err
	}

	var player playerResponse
	if !htmlutil.ScriptJSON(page, "ytInitialPlayerResponse", &player) {
		err := fmt.Errorf("player response not found")
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse watch page")
		return Details{}, err
	}
	v := player.VideoDetails
	if v.VideoId == "" {
		return Details{}, fmt.Errorf("video unavailable: %s", player.PlayabilityStatus.Reason)
	}

	details := Details{
		Title:       html.UnescapeString(v.Title),
		Channel:     html.UnescapeString(v.Author),
		Description: html.UnescapeString(v.ShortDescription),
		Tags:        v.Keywords,
		ImageUrl:    v.Thumbnail.last(),
		Duration:    "N/A",
		Views:       "N/A",
	}
	if details.Tags == nil {
		details.Tags = []string{}
	}
	if seconds, err := strconv.Atoi(v.LengthSeconds); err == nil {
		details.Duration = FormatDuration(seconds)
	}
	if v.ViewCount != "" {
		details.Views = v.ViewCount
	}
	return details, nil
}

type textRuns struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (t textRuns) String() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	out := ""
	for _, r := range t.Runs {
		out += r.Text
	}
	return out
}

type videoRenderer struct {
	VideoId            string        `json:"videoId"`
	Title              textRuns      `json:"title"`
	OwnerText          textRuns      `json:"ownerText"`
	Thumbnail          thumbnailList `json:"thumbnail"`
	LengthText         textRuns      `json:"lengthText"`
	ViewCountText      textRuns      `json:"viewCountText"`
	ShortViewCountText textRuns      `json:"shortViewCountText"`
}

type SearchResult struct {
	Title    string   `json:"title"`
	Channel  string   `json:"channel"`
	Tags     []string `json:"tags"`
	ImageUrl string   `json:"imageUrl"`
	Link     string   `json:"link"`
	Duration string   `json:"duration"`
	Views    string   `json:"views"`
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// collectRenderers walks the loosely typed initial data and gathers
// every videoRenderer object in document order.
func collectRenderers(node any, out *[]map[string]any, limit int) {
	if len(*out) >= limit {
		return
	}
	switch v := node.(type) {
	case map[string]any:
		if renderer, ok := v["videoRenderer"].(map[string]any); ok {
			*out = append(*out, renderer)
			return
		}
		// map iteration order is random, the result list needs page order
		for _, key := range []string{"contents", "twoColumnSearchResultsRenderer", "primaryContents", "sectionListRenderer", "itemSectionRenderer"} {
			if child, ok := v[key]; ok {
				collectRenderers(child, out, limit)
			}
		}
	case []any:
		for _, child := range v {
			collectRenderers(child, out, limit)
		}
	}
}

func (s *Service) search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "search")
	defer span.End()

	page, err := s.fetchPage(ctx, "/results", map[string]string{"search_query": query})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results page")
		return nil, err
	}

	var data map[string]any
	if !htmlutil.ScriptJSON(page, "ytInitialData", &data) {
		err := fmt.Errorf("initial data not found")
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse results page")
		return nil, err
	}

	raw := []map[string]any{}
	collectRenderers(data, &raw, maxSearchResults)

	results := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		var video videoRenderer
		if err := remarshal(r, &video); err != nil || video.VideoId == "" {
			continue
		}
		result := SearchResult{
			Title:    html.UnescapeString(video.Title.String()),
			Channel:  html.UnescapeString(video.OwnerText.String()),
			Tags:     []string{},
			ImageUrl: video.Thumbnail.last(),
			Link:     "https://www.youtube.com/watch?v=" + video.VideoId,
			Duration: "N/A",
			Views:    video.ShortViewCountText.String(),
		}
		if seconds, ok := ParseClock(video.LengthText.String()); ok {
			result.Duration = FormatDuration(seconds)
		}
		if result.Views == "" {
			result.Views = video.ViewCountText.String()
		}
		if result.Views == "" {
			result.Views = "N/A"
		}
		results = append(results, result)
	}
	return results, nil
}
