package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

const geminiToken = "AFYhtlRq8s0kM1eZ3oL-token-value:1700000000000"

var fixedNow = time.UnixMilli(1700000123456)

func streamLine(text string) string {
	inner, _ := json.Marshal([]any{nil, nil, nil, nil, []any{[]any{"rc_1", []any{text}}}})
	line, _ := json.Marshal([]any{[]any{"wrb.fr", nil, string(inner)}})
	return string(line)
}

func setupGemini(t *testing.T) *Service {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /app", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "NID", Value: "n1"})
		fmt.Fprintf(w, `<html><script>window.WIZ_global_data = {"SNlM0e":"%s","bl":"boq_assistant-bard-web-server_20260101.00_p0","fsid":"-4242"};</script></html>`, geminiToken)
	})
	mux.HandleFunc("POST "+streamGeneratePath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("bl") != "boq_assistant-bard-web-server_20260101.00_p0" ||
			query.Get("f.sid") != "-4242" ||
			query.Get("_reqid") != "123456" ||
			r.Header.Get("x-same-domain") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if c, err := r.Cookie("NID"); err != nil || c.Value != "n1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var outer []any
		if json.Unmarshal([]byte(r.FormValue("f.req")), &outer) != nil || len(outer) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var inner []any
		innerJson, _ := outer[1].(string)
		if json.Unmarshal([]byte(innerJson), &inner) != nil || inner[3] != geminiToken {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		prompt := inner[0].([]any)[0].(string)
		if prompt == "silence" {
			w.Write([]byte(")]}'\n\n12\n[[\"di\",42]]\n"))
			return
		}

		lines := []string{
			")]}'",
			"",
			"120",
			streamLine("Hello"),
			"240",
			streamLine("Hello, you asked: "+prompt),
			`[["di",42]]`,
		}
		w.Write([]byte(strings.Join(lines, "\n")))
	})
	upstream := testutil.Upstream(t, mux)

	service := NewService(Options{GeminiBaseUrl: upstream.URL})
	service.now = func() time.Time { return fixedNow }
	return service
}

func TestExtractToken(t *testing.T) {
	require.Equal(t, geminiToken, extractToken(`{"SNlM0e":"`+geminiToken+`"}`))
	require.Equal(t, geminiToken, extractToken(`'FdrFJe':'`+geminiToken+`'`))
	require.Empty(t, extractToken(`{"SNlM0e":"short"}`))

	long := strings.Repeat("x", 60)
	page := `<html><script>var cfg = {"someToken": "` + long + `"};</script></html>`
	require.Empty(t, extractToken(page))
	require.Equal(t, long, extractScriptToken(page))
	require.Empty(t, extractScriptToken(`<html><script>var a = 1;</script></html>`))
}

func TestSessionParams(t *testing.T) {
	bl, fsid, reqid := sessionParams("<html></html>", fixedNow)
	require.Equal(t, defaultBuildLabel, bl)
	require.Equal(t, "-1700000123456", fsid)
	require.Equal(t, int64(123456), reqid)

	bl, fsid, reqid = sessionParams(`{"bl":"boq_x_1.0","f.sid":"777","_reqid":"55"}`, fixedNow)
	require.Equal(t, "boq_x_1.0", bl)
	require.Equal(t, "777", fsid)
	require.Equal(t, int64(55), reqid)
}

func TestParseStream(t *testing.T) {
	body := strings.Join([]string{
		")]}'",
		"10",
		streamLine("short"),
		"not json",
		`[["wrb.fr",null,null]]`,
		`[["af.httprm",1,"x"]]`,
		streamLine("the longest answer"),
		streamLine("mid answer"),
	}, "\n")
	require.Equal(t, "the longest answer", parseStream(body))
	require.Empty(t, parseStream(")]}'\n"))
}

func TestGemini(t *testing.T) {
	service := setupGemini(t)

	answer, err := service.Gemini(context.Background(), "what is \"go\"?\nanswer briefly")
	require.NoError(t, err)
	require.Equal(t, "Hello, you asked: what is \"go\"?\nanswer briefly", answer.Response)
	require.Equal(t, "gemini", answer.Metadata.Model)
	require.Equal(t, len([]rune(answer.Response)), answer.Metadata.CharacterCount)
	require.Equal(t, 8, answer.Metadata.WordCount)
	require.Equal(t, "2023-11-14T22:15:23Z", answer.Metadata.Timestamp)

	_, err = service.Gemini(context.Background(), "silence")
	require.ErrorIs(t, err, apiutil.ErrUpstream)
}

func TestGeminiWithoutToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /app", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>sign in</html>"))
	})
	upstream := testutil.Upstream(t, mux)
	service := NewService(Options{GeminiBaseUrl: upstream.URL})

	_, err := service.Gemini(context.Background(), "hi")
	require.ErrorIs(t, err, apiutil.ErrUpstream)
	require.Contains(t, err.Error(), "Failed to establish session with Gemini")
}
