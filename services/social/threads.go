package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"toolbox-backend/lib/restyutil"

	"go.opentelemetry.io/otel/codes"
)

// Threads fetches the media of a threads post through the
// threadsphotodownloader API and passes its JSON through.
func (s *Service) Threads(ctx context.Context, postUrl string) (any, error) {
	ctx, span := tracer.Start(ctx, "Threads")
	defer span.End()

	res, err := s.threads.R().
		SetContext(ctx).
		SetQueryParam("url", postUrl).
		SetHeaders(map[string]string{
			"accept":          "*/*",
			"accept-encoding": "gzip, deflate, br, zstd",
			"accept-language": "en-US,en;q=0.9",
			"referer":         "https://sssthreads.pro/",
			"origin":          "https://sssthreads.pro",
		}).
		Get("/v2/media")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "threads request failed")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("threads api returned %s", res.Status())
	}

	body, err := restyutil.DecodeBody(res)
	if err != nil {
		body = res.Body()
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse threads response")
		return nil, err
	}
	if obj, ok := data.(map[string]any); ok {
		if apiErr, exists := obj["error"]; exists {
			return nil, fmt.Errorf("threads api error: %v", apiErr)
		}
	}
	return data, nil
}
