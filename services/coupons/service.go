package coupons

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/coupons")

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	promoCodesPath = "/promo-codes/"
	hostingerPath  = promoCodesPath + "hostinger.com-website-builder"
)

var (
	hostingerName = regexp.MustCompile(`^hostinger(?:\.com)?$`)
	hostingerUrl  = regexp.MustCompile(`hostinger(?:\.com(?:-website-builder)?)?$`)
)

type Options struct {
	BaseUrl string
	Output  restyutil.InstrumentOutput
}

type Service struct {
	client *resty.Client
	base   *url.URL
}

func NewService(opts Options) (*Service, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = "https://dealspotr.com"
	}
	base, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:          opts.BaseUrl,
		UserAgent:        userAgent,
		Timeout:          time.Second * 10,
		CloudflareBypass: true,
		TracerName:       "services/coupons/dealspotr",
		Output:           opts.Output,
	})
	client.SetHeaders(map[string]string{
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"accept-language": "en-US,en;q=0.5",
		"referer":         opts.BaseUrl + "/",
	})

	return &Service{client: client, base: base}, nil
}

type Store struct {
	Name string
	Url  string
}

func (s *Service) hostinger() Store {
	return Store{Name: "hostinger", Url: s.base.JoinPath(hostingerPath).String()}
}

func (s *Service) get(ctx context.Context, target string) (*resty.Response, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", target, res.Status())
	}
	return res, nil
}

// ResolveStore turns a keyword or a store link into the store page.
func (s *Service) ResolveStore(ctx context.Context, site string) (Store, error) {
	ctx, span := tracer.Start(ctx, "ResolveStore")
	defer span.End()

	site = strings.TrimSpace(site)
	if !strings.HasPrefix(site, "http") {
		if hostingerName.MatchString(site) {
			return s.hostinger(), nil
		}

		res, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("qT", site).
			Get("/stores")
		if err != nil || res.StatusCode() != http.StatusOK {
			slog.WarnContext(ctx, "store search failed", "keyword", site, "err", err)
			return Store{}, apiutil.NotFound("No store found for keyword %q", site)
		}
		storeUrl, name, err := parseStoreSearch(ctx, bytes.NewReader(res.Body()), s.base)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse store search")
			return Store{}, err
		}
		if storeUrl == "" || name == "" {
			return Store{}, apiutil.NotFound("No store found for keyword %q", site)
		}
		if hostingerName.MatchString(name) {
			return s.hostinger(), nil
		}
		return Store{Name: name, Url: storeUrl}, nil
	}

	link, err := url.Parse(site)
	if err != nil || link.Host != s.base.Host {
		return Store{}, apiutil.InvalidInput("Only %s store links are supported", s.base.Host)
	}
	name := lastSegment(link.Path)
	if hostingerName.MatchString(name) {
		return s.hostinger(), nil
	}
	return Store{Name: name, Url: site}, nil
}

// Coupons lists the promo codes published for a store.
func (s *Service) Coupons(ctx context.Context, store Store) ([]Coupon, error) {
	ctx, span := tracer.Start(ctx, "Coupons")
	defer span.End()

	listing := store.Url
	if !hostingerUrl.MatchString(store.Url) {
		res, err := s.get(ctx, store.Url)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch store page", "url", store.Url, "err", err)
			return nil, apiutil.NotFound("Invalid site URL provided")
		}
		id, err := parseCouponId(bytes.NewReader(res.Body()))
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, apiutil.NotFound("Invalid site URL provided")
		}
		listing = strings.TrimRight(store.Url, "/") + "/" + id
	}

	res, err := s.get(ctx, listing)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to fetch coupon listing", "url", listing, "err", err)
		return nil, apiutil.NotFound("No coupons available for store %q", store.Name)
	}
	coupons, err := parseCoupons(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, apiutil.NotFound("No coupons available for store %q", store.Name)
	}
	return coupons, nil
}
