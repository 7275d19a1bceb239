package social

import (
	"time"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/social")

const androidUserAgent = "Mozilla/5.0 (Linux; Android 15; V2434 Build/AP3A.240905.015.A2_NN_V000L1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.7499.35 Mobile Safari/537.36"

type Options struct {
	ThreadsBaseUrl string
	TwitterBaseUrl string
	Output         restyutil.InstrumentOutput
}

type Service struct {
	threads *resty.Client
	twitter *resty.Client
}

func NewService(opts Options) *Service {
	if opts.ThreadsBaseUrl == "" {
		opts.ThreadsBaseUrl = "https://api.threadsphotodownloader.com"
	}
	if opts.TwitterBaseUrl == "" {
		opts.TwitterBaseUrl = "https://savetwitter.net"
	}

	twitter := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    opts.TwitterBaseUrl,
		UserAgent:  androidUserAgent,
		Timeout:    time.Second * 30,
		Cookies:    true,
		TracerName: "services/social/twitter",
		Output:     opts.Output,
	})
	twitter.SetHeaders(map[string]string{
		"accept-language":    "en-GB,en-US;q=0.9,en;q=0.8",
		"sec-ch-ua-platform": `"Android"`,
		"sec-ch-ua":          `"Android WebView";v="143", "Chromium";v="143", "Not A(Brand";v="24"`,
		"sec-ch-ua-mobile":   "?1",
	})

	return &Service{
		threads: restyutil.NewClient(restyutil.ClientOptions{
			BaseUrl:    opts.ThreadsBaseUrl,
			UserAgent:  "Mozilla/5.0",
			Timeout:    time.Second * 30,
			TracerName: "services/social/threads",
			Output:     opts.Output,
		}),
		twitter: twitter,
	}
}
