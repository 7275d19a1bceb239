package weather

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

type uploadResponse struct {
	Status string `json:"status"`
	Data   struct {
		Url string `json:"url"`
	} `json:"data"`
}

// upload stores the image on tmpfiles.org and returns its direct
// download link.
func (s *Service) upload(ctx context.Context, filename string, image []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "upload")
	defer span.End()

	var body uploadResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(image)).
		SetResult(&body).
		Post(s.opts.UploadBaseUrl + "/api/v1/upload")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image upload failed")
		return "", err
	}
	if res.StatusCode() != http.StatusOK || body.Status != "success" || body.Data.Url == "" {
		err := fmt.Errorf("upload returned %s: %s", res.Status(), res.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, "image upload rejected")
		return "", err
	}
	return strings.Replace(body.Data.Url, "tmpfiles.org/", "tmpfiles.org/dl/", 1), nil
}
