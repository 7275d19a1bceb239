package ai

import (
	"time"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/ai")

type Options struct {
	GeminiBaseUrl     string
	PerplexityBaseUrl string
	Output            restyutil.InstrumentOutput
}

// Service proxies prompts to chat frontends, every prompt scrapes a fresh
// anonymous session so cookies are carried per request instead of in a
// shared jar.
type Service struct {
	gemini     *resty.Client
	perplexity *resty.Client
	now        func() time.Time
}

func NewService(opts Options) *Service {
	if opts.GeminiBaseUrl == "" {
		opts.GeminiBaseUrl = "https://gemini.google.com"
	}
	if opts.PerplexityBaseUrl == "" {
		opts.PerplexityBaseUrl = "https://www.perplexity.ai"
	}

	gemini := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    opts.GeminiBaseUrl,
		UserAgent:  geminiUserAgent,
		Timeout:    time.Minute,
		TracerName: "services/ai/gemini",
		Output:     opts.Output,
	})
	gemini.SetHeader("accept-language", "en-US,en;q=0.9")

	perplexity := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    opts.PerplexityBaseUrl,
		UserAgent:  perplexityUserAgent,
		Timeout:    time.Minute * 2,
		TracerName: "services/ai/perplexity",
		Output:     opts.Output,
	})
	perplexity.SetHeader("accept-language", "en-GB,en-US;q=0.9,en;q=0.8")

	return &Service{
		gemini:     gemini,
		perplexity: perplexity,
		now:        time.Now,
	}
}
