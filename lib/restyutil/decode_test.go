package restyutil

import (
	"bytes"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	payload := []byte(`{"data":{"media":"https://cdn.example/video.mp4"}}`)

	{
		out, err := decode("", payload)
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		var buf bytes.Buffer
		w := brotli.NewWriter(&buf)
		_, err := w.Write(payload)
		require.Nil(t, err)
		require.Nil(t, w.Close())

		out, err := decode("br", buf.Bytes())
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		enc, err := zstd.NewWriter(nil)
		require.Nil(t, err)
		compressed := enc.EncodeAll(payload, nil)
		require.Nil(t, enc.Close())

		out, err := decode("zstd", compressed)
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write(payload)
		require.Nil(t, err)
		require.Nil(t, w.Close())

		out, err := decode("gzip", buf.Bytes())
		require.Nil(t, err)
		require.Equal(t, payload, out)

		out, err = decode("gzip", payload)
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		_, err := w.Write(payload)
		require.Nil(t, err)
		require.Nil(t, w.Close())

		out, err := decode("deflate", buf.Bytes())
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.Nil(t, err)
		_, err = w.Write(payload)
		require.Nil(t, err)
		require.Nil(t, w.Close())

		out, err := decode("deflate", buf.Bytes())
		require.Nil(t, err)
		require.Equal(t, payload, out)
	}

	{
		_, err := decode("compress", payload)
		require.NotNil(t, err)
	}
}
