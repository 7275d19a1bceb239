package restyutil

import (
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl   string
	UserAgent string
	// defaults to 30 seconds
	Timeout time.Duration
	// keeps cookies between requests made by this client
	Cookies bool
	// wraps the transport with cloudflare's browser fingerprint
	CloudflareBypass bool
	// the name of the otel tracer used for outbound spans
	TracerName string
	Output     InstrumentOutput
}

// NewClient creates an instrumented resty client, each upstream owns
// its own client.
func NewClient(opts ClientOptions) *resty.Client {
	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client.SetHeader("user-agent", ua)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	if opts.Cookies {
		jar, _ := cookiejar.New(nil)
		client.SetCookieJar(jar)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = "resty"
	}
	InstrumentClient(client, otel.Tracer(tracerName), opts.Output)

	return client
}
