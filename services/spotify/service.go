package spotify

import (
	"sync"
	"time"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/spotify")

type Options struct {
	ClientId        string
	ClientSecret    string
	AccountsBaseUrl string
	ApiBaseUrl      string
	DownloadBaseUrl string
	Output          restyutil.InstrumentOutput
}

type Service struct {
	opts       Options
	accounts   *resty.Client
	api        *resty.Client
	downloader *resty.Client

	tokens     *cache.Cache
	tokenMutex sync.Mutex
}

func NewService(opts Options) *Service {
	if opts.AccountsBaseUrl == "" {
		opts.AccountsBaseUrl = "https://accounts.spotify.com"
	}
	if opts.ApiBaseUrl == "" {
		opts.ApiBaseUrl = "https://api.spotify.com"
	}
	if opts.DownloadBaseUrl == "" {
		opts.DownloadBaseUrl = "https://spotmp3.app"
	}

	newClient := func(base, name string) *resty.Client {
		return restyutil.NewClient(restyutil.ClientOptions{
			BaseUrl:    base,
			Timeout:    time.Second * 15,
			TracerName: "services/spotify/" + name,
			Output:     opts.Output,
		})
	}
	return &Service{
		opts:       opts,
		accounts:   newClient(opts.AccountsBaseUrl, "accounts"),
		api:        newClient(opts.ApiBaseUrl, "api"),
		downloader: newClient(opts.DownloadBaseUrl, "spotmp3"),
		tokens:     cache.New(time.Hour, time.Minute*10),
	}
}
