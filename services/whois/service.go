package whois

import (
	"context"
	"regexp"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/lookupcache"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"github.com/weppos/publicsuffix-go/publicsuffix"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/whois")

var domainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)

type Options struct {
	WhoisBaseUrl string
	RdapBaseUrl  string
	CacheSize    int
	CacheTTL     time.Duration
	Output       restyutil.InstrumentOutput
}

type Service struct {
	whois *resty.Client
	rdap  *resty.Client

	whoisCache *lookupcache.Cache[Record]
	rdapCache  *lookupcache.Cache[RdapRecord]
}

func NewService(opts Options) *Service {
	if opts.WhoisBaseUrl == "" {
		opts.WhoisBaseUrl = DefaultWhoisBaseUrl
	}
	if opts.RdapBaseUrl == "" {
		opts.RdapBaseUrl = DefaultRdapBaseUrl
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 512
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute * 10
	}

	return &Service{
		whois:      newWhoisClient(opts.WhoisBaseUrl, opts.Output),
		rdap:       newRdapClient(opts.RdapBaseUrl, opts.Output),
		whoisCache: lookupcache.New[Record](opts.CacheSize, opts.CacheTTL),
		rdapCache:  lookupcache.New[RdapRecord](opts.CacheSize, opts.CacheTTL),
	}
}

// NormalizeDomain lower cases and validates a domain name, then reduces
// it to its registrable part ("www.example.co.uk" -> "example.co.uk").
func NormalizeDomain(input string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(input))
	domain = strings.TrimSuffix(domain, ".")
	if !domainRegex.MatchString(domain) {
		return "", apiutil.InvalidInput("Invalid domain format")
	}
	registrable, err := publicsuffix.Domain(domain)
	if err != nil || registrable == "" {
		return domain, nil
	}
	return registrable, nil
}

// Whois scrapes the whois.com record of a domain.
func (s *Service) Whois(ctx context.Context, input string) (Record, bool, error) {
	domain, err := NormalizeDomain(input)
	if err != nil {
		return Record{}, false, err
	}
	return s.whoisCache.Get(ctx, domain, func(ctx context.Context) (Record, error) {
		return s.scrapeWhois(ctx, domain)
	})
}

// Rdap fetches the registry's RDAP record of a domain through rdap.org.
func (s *Service) Rdap(ctx context.Context, input string) (RdapRecord, bool, error) {
	domain, err := NormalizeDomain(input)
	if err != nil {
		return RdapRecord{}, false, err
	}
	return s.rdapCache.Get(ctx, domain, func(ctx context.Context) (RdapRecord, error) {
		return s.fetchRdap(ctx, domain)
	})
}
