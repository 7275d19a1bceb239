package restyutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// DecodeBody returns the response body decoded according to its
// Content-Encoding. the transport only transparently decodes gzip when it
// negotiated the encoding itself, so requests that send their own
// Accept-Encoding header need this.
func DecodeBody(res *resty.Response) ([]byte, error) {
	return decode(res.Header().Get("content-encoding"), res.Body())
}

func decode(encoding string, body []byte) ([]byte, error) {
	var reader io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		reader = dec
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			// already decoded by the transport
			return body, nil
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			// some servers send a raw deflate stream without the zlib header
			reader = flate.NewReader(bytes.NewReader(body))
			break
		}
		defer zr.Close()
		reader = zr
	default:
		return nil, fmt.Errorf("unsupported content encoding '%s'", encoding)
	}
	return io.ReadAll(reader)
}
