package spotify

import (
	"context"
	"net/http"
	"net/url"
	"toolbox-backend/lib/apiutil"

	"go.opentelemetry.io/otel/codes"
)

type DownloadResult struct {
	Track    Track `json:"track"`
	Download any   `json:"download"`
}

// Download resolves track metadata and asks spotmp3 whether a direct
// download is ready. When it is not, spotmp3's answer is passed through.
func (s *Service) Download(ctx context.Context, trackUrl string) (DownloadResult, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	id, err := TrackId(trackUrl)
	if err != nil {
		return DownloadResult{}, err
	}
	if bareIdRegex.MatchString(trackUrl) {
		trackUrl = "https://open.spotify.com/track/" + id
	}
	track, err := s.Track(ctx, id)
	if err != nil {
		return DownloadResult{}, err
	}

	var check map[string]any
	res, err := s.downloader.R().
		SetContext(ctx).
		SetQueryParam("url", trackUrl).
		SetResult(&check).
		Get("/api/check-direct-download")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download check failed")
		return DownloadResult{}, apiutil.Upstream("Download check failed", err)
	}
	if res.StatusCode() != http.StatusOK {
		return DownloadResult{}, apiutil.Upstream("Download check returned "+res.Status(), nil)
	}

	result := DownloadResult{Track: track, Download: check}
	if cached, _ := check["cached"].(bool); cached {
		result.Download = map[string]string{
			"link": s.opts.DownloadBaseUrl + "/api/direct-download?url=" + url.QueryEscape(trackUrl),
		}
	}
	return result, nil
}
