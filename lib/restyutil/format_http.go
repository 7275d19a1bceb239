package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

// scraped pages can be several megabytes, dumps keep the head of the body
const maxDumpedBody = 256 << 10

func writeHeaders(b *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
}

func writeBody(b *strings.Builder, body []byte) {
	b.WriteByte('\n')
	if len(body) > maxDumpedBody {
		b.Write(body[:maxDumpedBody])
		fmt.Fprintf(b, "\n... truncated %d bytes", len(body)-maxDumpedBody)
		return
	}
	b.Write(body)
}

func requestBody(req *http.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return []byte("unreadable request body: " + err.Error())
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return []byte("unreadable request body: " + err.Error())
	}
	return body
}

// formatHttpMessage renders a request/response pair as plain text, the
// response body is decoded from its content-encoding when possible.
func formatHttpMessage(res *resty.Response) string {
	var b strings.Builder

	fmt.Fprintf(&b, "> %s %s\n", res.Request.Method, res.Request.URL)
	if raw := res.Request.RawRequest; raw != nil {
		writeHeaders(&b, raw.Header)
		writeBody(&b, requestBody(raw))
	}

	location := ""
	if res.RawResponse != nil {
		if loc, err := res.RawResponse.Location(); err == nil {
			location = " -> " + loc.String()
		}
	}
	fmt.Fprintf(&b, "\n\n< %d%s\n", res.StatusCode(), location)
	writeHeaders(&b, res.Header())

	body, err := DecodeBody(res)
	if err != nil {
		body = res.Body()
	}
	writeBody(&b, body)
	return b.String()
}
