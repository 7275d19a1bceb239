package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const (
	geminiUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	defaultBuildLabel  = "boq_assistant-bard-web-server_20251231.00_p0"
	streamGeneratePath = "/_/BardChatUi/data/assistant.lamda.BardFrontendService/StreamGenerate"
)

var tokenPatterns = compileAll(
	`"SNlM0e":"([^"]+)"`,
	`'SNlM0e':'([^']+)'`,
	`SNlM0e["']?\s*[:=]\s*["']([^"']+)["']`,
	`"FdrFJe":"([^"]+)"`,
	`'FdrFJe':'([^']+)'`,
	`FdrFJe["']?\s*[:=]\s*["']([^"']+)["']`,
	`"cfb2h":"([^"]+)"`,
	`'cfb2h':'([^']+)'`,
	`cfb2h["']?\s*[:=]\s*["']([^"']+)["']`,
	`at["']?\s*[:=]\s*["']([^"']{50,})["']`,
	`"at":"([^"]+)"`,
	`"token":"([^"]+)"`,
	`data-token["']?\s*=\s*["']([^"']+)["']`,
)

var scriptObjectPatterns = compileAll(
	`\{[^}]*"[^"]*token[^"]*"[^}]*\}`,
	`\{[^}]*SNlM0e[^}]*\}`,
	`\{[^}]*FdrFJe[^}]*\}`,
)

var buildLabelPatterns = compileAll(
	`bl["']?\s*[:=]\s*["']([^"']+)["']`,
	`"bl":"([^"]+)"`,
	`buildLabel["']?\s*[:=]\s*["']([^"']+)["']`,
	`boq[_-]assistant[^"']*_(\d+\.\d+[^"']*)`,
	`/_/BardChatUi.*?bl=([^&"']+)`,
)

var sessionIdPatterns = compileAll(
	`f\.sid["']?\s*[:=]\s*["']?([^"'\s&]+)`,
	`"fsid":"([^"]+)"`,
	`f\.sid=([^&"']+)`,
	`sessionId["']?\s*[:=]\s*["']([^"']+)["']`,
)

var reqIdRegex = regexp.MustCompile(`_reqid["']?\s*[:=]\s*["']?(\d+)`)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// extractToken finds the anti-forgery token gemini embeds in its app page.
func extractToken(page string) string {
	for _, p := range tokenPatterns {
		m := p.FindStringSubmatch(page)
		if m != nil && len(m[1]) > 20 {
			return m[1]
		}
	}
	return ""
}

// extractScriptToken is the fallback for pages where the token only
// appears inside an inline script object.
func extractScriptToken(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}

	token := ""
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		content := script.Text()
		if content == "" {
			return true
		}
		if strings.Contains(content, "SNlM0e") || strings.Contains(content, "FdrFJe") {
			if token = extractToken(content); token != "" {
				return false
			}
		}
		for _, p := range scriptObjectPatterns {
			for _, candidate := range p.FindAllString(content, -1) {
				var obj map[string]any
				if json.Unmarshal([]byte(candidate), &obj) != nil {
					continue
				}
				for _, v := range obj {
					if s, ok := v.(string); ok && len(s) > 50 {
						token = s
						return false
					}
				}
			}
		}
		return true
	})
	return token
}

type geminiSession struct {
	token      string
	buildLabel string
	sessionId  string
	reqId      int64
	cookies    []*http.Cookie
}

func sessionParams(page string, now time.Time) (buildLabel, sessionId string, reqId int64) {
	buildLabel, ok := firstMatch(buildLabelPatterns, page)
	if !ok {
		buildLabel = defaultBuildLabel
	}
	sessionId, ok = firstMatch(sessionIdPatterns, page)
	if !ok {
		sessionId = strconv.FormatInt(-now.UnixMilli(), 10)
	}
	reqId = now.UnixMilli() % 1_000_000
	if m := reqIdRegex.FindStringSubmatch(page); m != nil {
		if parsed, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			reqId = parsed
		}
	}
	return buildLabel, sessionId, reqId
}

func (s *Service) geminiSession(ctx context.Context) (geminiSession, error) {
	res, err := s.gemini.R().
		SetContext(ctx).
		SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8").
		Get("/app")
	if err != nil {
		return geminiSession{}, err
	}
	if res.StatusCode() != http.StatusOK {
		return geminiSession{}, fmt.Errorf("gemini app page returned %s", res.Status())
	}

	page := res.String()
	token := extractToken(page)
	if token == "" {
		token = extractScriptToken(page)
	}
	if token == "" {
		return geminiSession{}, fmt.Errorf("gemini token not found")
	}

	session := geminiSession{token: token, cookies: res.Cookies()}
	session.buildLabel, session.sessionId, session.reqId = sessionParams(page, s.now())
	return session, nil
}

// buildRequest encodes the f.req form value, an outer array wrapping the
// json encoded inner request as a string.
func buildRequest(prompt, token string) (string, error) {
	inner := make([]any, 62)
	inner[0] = []any{prompt, 0, nil, nil, nil, nil, 0}
	inner[1] = []any{"en-US"}
	inner[2] = []any{"", "", "", nil, nil, nil, nil, nil, nil, ""}
	inner[3] = token
	inner[4] = strings.ReplaceAll(uuid.NewString(), "-", "")
	inner[6] = []any{0}
	inner[7] = 1
	inner[10] = 1
	inner[11] = 0
	inner[17] = []any{[]any{0}}
	inner[18] = 0
	inner[27] = 1
	inner[30] = []any{4}
	inner[41] = []any{2}
	inner[53] = 0
	inner[59] = strings.ToUpper(uuid.NewString())
	inner[61] = []any{}

	innerJson, err := json.Marshal(inner)
	if err != nil {
		return "", err
	}
	outer, err := json.Marshal([]any{nil, string(innerJson)})
	if err != nil {
		return "", err
	}
	return string(outer), nil
}

// parseStream returns the longest candidate text found in the
// StreamGenerate response.
func parseStream(body string) string {
	longest := ""
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ")]}") {
			continue
		}
		if _, err := strconv.Atoi(line); err == nil {
			continue
		}

		var frames [][]any
		if json.Unmarshal([]byte(line), &frames) != nil || len(frames) == 0 {
			continue
		}
		frame := frames[0]
		if len(frame) < 3 || frame[0] != "wrb.fr" {
			continue
		}
		innerJson, ok := frame[2].(string)
		if !ok || innerJson == "" {
			continue
		}

		var inner []any
		if json.Unmarshal([]byte(innerJson), &inner) != nil || len(inner) <= 4 {
			continue
		}
		candidates, ok := inner[4].([]any)
		if !ok || len(candidates) == 0 {
			continue
		}
		candidate, ok := candidates[0].([]any)
		if !ok || len(candidate) < 2 {
			continue
		}
		texts, ok := candidate[1].([]any)
		if !ok || len(texts) == 0 {
			continue
		}
		if text, ok := texts[0].(string); ok && len(text) > len(longest) {
			longest = text
		}
	}
	return longest
}

type GeminiMetadata struct {
	ResponseTime   string `json:"response_time"`
	Timestamp      string `json:"timestamp"`
	Model          string `json:"model"`
	CharacterCount int    `json:"character_count"`
	WordCount      int    `json:"word_count"`
}

type GeminiAnswer struct {
	Prompt   string         `json:"prompt"`
	Response string         `json:"response"`
	Metadata GeminiMetadata `json:"metadata"`
}

func (s *Service) Gemini(ctx context.Context, prompt string) (GeminiAnswer, error) {
	ctx, span := tracer.Start(ctx, "Gemini")
	defer span.End()

	start := time.Now()
	session, err := s.geminiSession(ctx)
	if err != nil {
		span.RecordError(err)
		return GeminiAnswer{}, apiutil.Upstream("Failed to establish session with Gemini", err)
	}

	form, err := buildRequest(prompt, session.token)
	if err != nil {
		return GeminiAnswer{}, err
	}

	res, err := s.gemini.R().
		SetContext(ctx).
		SetCookies(session.cookies).
		SetQueryParams(map[string]string{
			"bl":     session.buildLabel,
			"f.sid":  session.sessionId,
			"hl":     "en-US",
			"_reqid": strconv.FormatInt(session.reqId, 10),
			"rt":     "c",
		}).
		SetHeaders(map[string]string{
			"content-type":  "application/x-www-form-urlencoded;charset=UTF-8",
			"origin":        s.gemini.BaseURL,
			"referer":       s.gemini.BaseURL + "/",
			"x-same-domain": "1",
		}).
		SetFormData(map[string]string{"f.req": form, "": ""}).
		Post(streamGeneratePath)
	if err != nil {
		span.RecordError(err)
		return GeminiAnswer{}, apiutil.Upstream("Gemini request failed", err)
	}
	if res.StatusCode() != http.StatusOK {
		return GeminiAnswer{}, apiutil.Upstream(fmt.Sprintf("HTTP %d", res.StatusCode()), nil)
	}

	text := parseStream(res.String())
	if text == "" {
		return GeminiAnswer{}, apiutil.Upstream("No response received from Gemini", nil)
	}

	return GeminiAnswer{
		Prompt:   prompt,
		Response: text,
		Metadata: GeminiMetadata{
			ResponseTime:   apiutil.TimeTaken(start),
			Timestamp:      s.now().UTC().Format(time.RFC3339),
			Model:          "gemini",
			CharacterCount: len([]rune(text)),
			WordCount:      len(strings.Fields(text)),
		},
	}, nil
}
