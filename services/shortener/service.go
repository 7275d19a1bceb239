package shortener

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/PuerkitoBio/purell"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/shortener")

var codeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type Service struct {
	store   Store
	baseUrl string
	now     func() time.Time
}

// `baseUrl` is the public origin short urls are built from.
func NewService(store Store, baseUrl string) Service {
	return Service{
		store:   store,
		baseUrl: strings.TrimRight(baseUrl, "/"),
		now:     time.Now,
	}
}

func (s Service) ShortUrl(code string) string {
	return s.baseUrl + "/shortner/" + code
}

// GenerateCode derives the default short code of a url, the first 6 hex
// characters of its md5 digest in upper case.
func GenerateCode(longUrl string) string {
	sum := md5.Sum([]byte(longUrl))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:6])
}

// NormalizeUrl prepends https:// to scheme-less urls, rejects anything
// that is not an absolute http(s) url and canonicalizes the rest so
// equivalent urls share a code.
func NormalizeUrl(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", apiutil.InvalidInput("Invalid URL provided.")
	}
	return purell.NormalizeURL(parsed, purell.FlagsSafe), nil
}

// NormalizeCode upper cases a short code after checking its alphabet.
func NormalizeCode(code string) (string, error) {
	if !codeRegex.MatchString(code) {
		return "", apiutil.InvalidInput("Invalid short code.")
	}
	return strings.ToUpper(code), nil
}

type ShortenResult struct {
	ShortUrl    string
	OriginalUrl string
	ShortCode   string
	CustomSlug  bool
	Created     bool
}

func (s Service) Shorten(ctx context.Context, rawUrl, slug string) (ShortenResult, error) {
	ctx, span := tracer.Start(ctx, "Shorten")
	defer span.End()

	longUrl, err := NormalizeUrl(rawUrl)
	if err != nil {
		return ShortenResult{}, err
	}

	custom := slug != ""
	code := GenerateCode(longUrl)
	if custom {
		code = strings.ToUpper(slug)
		if !codeRegex.MatchString(code) || len(code) < 3 || len(code) > 50 {
			return ShortenResult{}, apiutil.InvalidInput(
				"Slug must be 3-50 characters and contain only letters, numbers, hyphens, or underscores.",
			)
		}
	}
	span.SetAttributes(
		attribute.String("short_code", code),
		attribute.Bool("custom_slug", custom),
	)

	existing, created, err := s.store.Create(ctx, Record{
		ShortCode: code,
		LongUrl:   longUrl,
		CreatedAt: s.now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store short url")
		return ShortenResult{}, err
	}
	if !created && custom && existing.LongUrl != longUrl {
		return ShortenResult{}, apiutil.Conflict("Custom slug already in use.")
	}

	return ShortenResult{
		ShortUrl:    s.ShortUrl(code),
		OriginalUrl: longUrl,
		ShortCode:   code,
		CustomSlug:  custom,
		Created:     created,
	}, nil
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apiutil.NotFound("Short URL not found.")
	}
	return err
}

// Resolve records a click and returns the long url of a code.
func (s Service) Resolve(ctx context.Context, code string) (string, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	code, err := NormalizeCode(code)
	if err != nil {
		return "", err
	}
	record, err := s.store.RecordClick(ctx, code, s.now())
	if err != nil {
		span.RecordError(err)
		return "", storeError(err)
	}
	return record.LongUrl, nil
}

func (s Service) Stats(ctx context.Context, code string) (Record, error) {
	ctx, span := tracer.Start(ctx, "Stats")
	defer span.End()

	code, err := NormalizeCode(code)
	if err != nil {
		return Record{}, err
	}
	record, err := s.store.Get(ctx, code)
	if err != nil {
		return Record{}, storeError(err)
	}
	return record, nil
}

func (s Service) Delete(ctx context.Context, code string) (string, error) {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	code, err := NormalizeCode(code)
	if err != nil {
		return "", err
	}
	err = s.store.Delete(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return "", apiutil.NotFound("Short URL not found or already deleted.")
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s Service) List(ctx context.Context, limit int) ([]Record, error) {
	return s.store.List(ctx, limit)
}

// QR renders a png qr code pointing at the short url of an existing code.
func (s Service) QR(ctx context.Context, code string, size int) ([]byte, error) {
	record, err := s.Stats(ctx, code)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(s.ShortUrl(record.ShortCode), qrcode.Medium, size)
}
