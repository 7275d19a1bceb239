package whois

import (
	"time"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultWhoisBaseUrl = "https://www.whois.com"
	DefaultRdapBaseUrl  = "https://rdap.org"
)

const mobileUserAgent = "Mozilla/5.0 (Linux; Android 11; RMX1993 Build/RKQ1.201112.002) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.7390.122 Mobile Safari/537.36"

func newWhoisClient(baseUrl string, output restyutil.InstrumentOutput) *resty.Client {
	client := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    baseUrl,
		UserAgent:  mobileUserAgent,
		Timeout:    time.Second * 20,
		TracerName: "services/whois/http",
		Output:     output,
	})
	client.SetHeaders(map[string]string{
		"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"accept-language":           "en-US,en;q=0.9",
		"sec-ch-ua-mobile":          "?1",
		"sec-ch-ua-platform":        `"Android"`,
		"upgrade-insecure-requests": "1",
		"sec-fetch-site":            "none",
		"sec-fetch-mode":            "navigate",
		"sec-fetch-user":            "?1",
		"sec-fetch-dest":            "document",
	})
	return client
}

func newRdapClient(baseUrl string, output restyutil.InstrumentOutput) *resty.Client {
	client := restyutil.NewClient(restyutil.ClientOptions{
		BaseUrl:    baseUrl,
		Timeout:    time.Second * 20,
		TracerName: "services/whois/rdap",
		Output:     output,
	})
	client.SetHeader("accept", "application/rdap+json, application/json")
	return client
}
