package spotify

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"toolbox-backend/lib/apiutil"

	"go.opentelemetry.io/otel/codes"
)

var (
	trackUrlRegex = regexp.MustCompile(`^https://open\.spotify\.com/track/[a-zA-Z0-9]+`)
	trackIdRegex  = regexp.MustCompile(`spotify\.com/track/([a-zA-Z0-9]{22})`)
	bareIdRegex   = regexp.MustCompile(`^[a-zA-Z0-9]{22}$`)
)

type apiImage struct {
	Url string `json:"url"`
}

type apiArtist struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type apiTrack struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	DurationMs int         `json:"duration_ms"`
	Artists    []apiArtist `json:"artists"`
	Album      struct {
		Id          string     `json:"id"`
		Name        string     `json:"name"`
		ReleaseDate string     `json:"release_date"`
		Images      []apiImage `json:"images"`
	} `json:"album"`
	ExternalUrls struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	ExternalIds struct {
		Isrc string `json:"isrc"`
	} `json:"external_ids"`
}

type Artist struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

type Track struct {
	Id       string   `json:"id"`
	Title    string   `json:"title"`
	Artists  []Artist `json:"artists"`
	Album    Album    `json:"album"`
	Duration string   `json:"duration"`
	Cover    *string  `json:"cover"`
	Url      string   `json:"url"`
	Isrc     string   `json:"isrc"`
}

type SearchResult struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Id          string  `json:"id"`
	Url         string  `json:"url"`
	Album       string  `json:"album"`
	ReleaseDate string  `json:"release_date"`
	Duration    string  `json:"duration"`
	Cover       *string `json:"cover"`
}

// FormatDuration renders milliseconds as "m:ss".
func FormatDuration(ms int) string {
	return strconv.Itoa(ms/60000) + ":" + fmt.Sprintf("%02d", (ms%60000)/1000)
}

// TrackId validates a track URL and extracts its 22 character id.
func TrackId(url string) (string, error) {
	url = strings.TrimSpace(url)
	if bareIdRegex.MatchString(url) {
		return url, nil
	}
	if !trackUrlRegex.MatchString(url) {
		return "", apiutil.InvalidInput("Valid Spotify track URL required")
	}
	match := trackIdRegex.FindStringSubmatch(url)
	if match == nil {
		return "", apiutil.InvalidInput("Invalid Spotify track ID or URL")
	}
	return match[1], nil
}

func cover(images []apiImage) *string {
	if len(images) == 0 {
		return nil
	}
	return &images[0].Url
}

func (t apiTrack) toTrack() Track {
	track := Track{
		Id:      t.Id,
		Title:   t.Name,
		Artists: make([]Artist, len(t.Artists)),
		Album: Album{
			Id:          t.Album.Id,
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
		},
		Duration: FormatDuration(t.DurationMs),
		Cover:    cover(t.Album.Images),
		Url:      t.ExternalUrls.Spotify,
		Isrc:     t.ExternalIds.Isrc,
	}
	for i, a := range t.Artists {
		track.Artists[i] = Artist{Id: a.Id, Name: a.Name}
	}
	if track.Isrc == "" {
		track.Isrc = "N/A"
	}
	return track
}

func (t apiTrack) toSearchResult() SearchResult {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return SearchResult{
		Title:       t.Name,
		Artist:      strings.Join(names, ", "),
		Id:          t.Id,
		Url:         t.ExternalUrls.Spotify,
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		Duration:    FormatDuration(t.DurationMs),
		Cover:       cover(t.Album.Images),
	}
}

func (s *Service) Track(ctx context.Context, id string) (Track, error) {
	ctx, span := tracer.Start(ctx, "Track")
	defer span.End()

	token, err := s.token(ctx)
	if err != nil {
		return Track{}, apiutil.Upstream("Unable to authenticate with Spotify", err)
	}

	var body apiTrack
	res, err := s.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", id).
		SetResult(&body).
		Get("/v1/tracks/{id}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "track request failed")
		return Track{}, apiutil.Upstream("Unable to retrieve track data", err)
	}
	switch {
	case res.StatusCode() == http.StatusNotFound, res.StatusCode() == http.StatusBadRequest:
		return Track{}, apiutil.NotFound("Track not found")
	case res.StatusCode() != http.StatusOK:
		return Track{}, apiutil.Upstream("Unable to retrieve track data", nil)
	}
	return body.toTrack(), nil
}

func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	token, err := s.token(ctx)
	if err != nil {
		return nil, apiutil.Upstream("Unable to authenticate with Spotify", err)
	}

	var body struct {
		Tracks struct {
			Items []apiTrack `json:"items"`
		} `json:"tracks"`
	}
	res, err := s.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": "5",
		}).
		SetResult(&body).
		Get("/v1/search")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, apiutil.Upstream("Spotify search failed", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apiutil.Upstream("Spotify search failed", nil)
	}
	if len(body.Tracks.Items) == 0 {
		return nil, apiutil.NotFound("No tracks found")
	}

	results := make([]SearchResult, len(body.Tracks.Items))
	for i, t := range body.Tracks.Items {
		results[i] = t.toSearchResult()
	}
	return results, nil
}
