package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"
)

const tokenKey = "client_credentials"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached client credentials access token, a new one is
// requested a minute before the previous one expires.
func (s *Service) token(ctx context.Context) (string, error) {
	if cached, ok := s.tokens.Get(tokenKey); ok {
		return cached.(string), nil
	}

	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()
	if cached, ok := s.tokens.Get(tokenKey); ok {
		return cached.(string), nil
	}

	ctx, span := tracer.Start(ctx, "token")
	defer span.End()

	if s.opts.ClientId == "" || s.opts.ClientSecret == "" {
		return "", fmt.Errorf("spotify client credentials are not configured")
	}

	var body tokenResponse
	res, err := s.accounts.R().
		SetContext(ctx).
		SetBasicAuth(s.opts.ClientId, s.opts.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&body).
		Post("/api/token")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token request failed")
		return "", err
	}
	if res.StatusCode() != http.StatusOK || body.AccessToken == "" {
		err := fmt.Errorf("token endpoint returned %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "token request rejected")
		return "", err
	}

	ttl := time.Duration(body.ExpiresIn)*time.Second - time.Minute
	if ttl > 0 {
		s.tokens.Set(tokenKey, body.AccessToken, ttl)
	}
	return body.AccessToken, nil
}
