package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"toolbox-backend/lib/apiutil"

	"github.com/google/uuid"
)

const (
	perplexityUserAgent = "Mozilla/5.0 (Linux; Android 10; Redmi 8A Dual) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Mobile Safari/537.36"
	defaultPplxVersion  = "2.35"
	defaultAskPath      = "/rest/sse/perplexity_ask"
)

var (
	pplxVersionRegex = regexp.MustCompile(`"version":"([\d.]+)"`)
	pplxCsrfRegex    = regexp.MustCompile(`csrf-token["']?\s*[:=]\s*["']([^"']+)`)
	pplxApiUrlRegex  = regexp.MustCompile(`"apiUrl":"([^"]+)"`)
)

type perplexitySession struct {
	cookies   []*http.Cookie
	visitorId string
	sessionId string
	version   string
	csrfToken string
	askUrl    string
	timestamp int64
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func hexId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Service) perplexitySession(ctx context.Context) (perplexitySession, error) {
	res, err := s.perplexity.R().
		SetContext(ctx).
		SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get("/")
	if err != nil {
		return perplexitySession{}, err
	}
	if res.StatusCode() != http.StatusOK {
		return perplexitySession{}, fmt.Errorf("perplexity home returned %s", res.Status())
	}

	page := res.String()
	session := perplexitySession{
		cookies:   res.Cookies(),
		version:   defaultPplxVersion,
		csrfToken: hexId() + "|" + hexId(),
		askUrl:    s.perplexity.BaseURL + defaultAskPath,
		timestamp: s.now().Unix(),
	}
	session.visitorId = cookieValue(session.cookies, "pplx.visitor-id")
	if session.visitorId == "" {
		session.visitorId = uuid.NewString()
	}
	session.sessionId = cookieValue(session.cookies, "pplx.session-id")
	if session.sessionId == "" {
		session.sessionId = uuid.NewString()
	}
	if m := pplxVersionRegex.FindStringSubmatch(page); m != nil {
		session.version = m[1]
	}
	if m := pplxCsrfRegex.FindStringSubmatch(page); m != nil {
		session.csrfToken = m[1]
	}
	if m := pplxApiUrlRegex.FindStringSubmatch(page); m != nil {
		session.askUrl = m[1]
	}
	return session, nil
}

// askCookies merges the home page cookies with the ones the mobile web
// client sets before its first question.
func (p perplexitySession) askCookies() ([]*http.Cookie, error) {
	millis := p.timestamp * 1000
	metadata, err := json.Marshal(map[string]any{
		"qc": 2, "qcu": 0, "qcm": 0, "qcc": 0, "qcco": 0, "qccol": 0, "qcdr": 0, "qcs": 0, "qcd": 0,
		"hli": false, "hcga": false, "hcds": false, "hso": false, "hfo": false,
		"hsco": false, "hfco": false, "hsma": false, "hdc": false,
		"fqa": millis, "lqa": millis,
	})
	if err != nil {
		return nil, err
	}

	extra := map[string]string{
		"pplx.visitor-id":                 p.visitorId,
		"pplx.session-id":                 p.sessionId,
		"next-auth.csrf-token":            p.csrfToken,
		"pplx.mweb-splash-page-dismissed": "true",
		"pplx.la-status":                  "allowed",
		"__ps_fva":                        strconv.FormatInt(millis, 10),
		"pplx.metadata":                   url.QueryEscape(string(metadata)),
	}
	cookies := []*http.Cookie{}
	for _, c := range p.cookies {
		if _, overridden := extra[c.Name]; !overridden {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	for name, value := range extra {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies, nil
}

type PerplexityOptions struct {
	Mode        string
	Model       string
	SearchFocus string
}

type PerplexityAnswer struct {
	Prompt    string         `json:"prompt"`
	Answer    string         `json:"answer"`
	Sources   []any          `json:"sources"`
	Metadata  map[string]any `json:"metadata"`
	Mode      string         `json:"mode"`
	Model     string         `json:"model"`
	Timestamp int64          `json:"timestamp"`
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// finalAnswer decodes the FINAL step out of a step list, the answer
// itself is another json document nested as a string.
func finalAnswer(stepsJson string) (string, []any, bool) {
	var steps []map[string]any
	if json.Unmarshal([]byte(stepsJson), &steps) != nil {
		return "", nil, false
	}
	for _, step := range steps {
		if stringField(step, "step_type") != "FINAL" {
			continue
		}
		content, _ := step["content"].(map[string]any)
		answerJson := stringField(content, "answer")
		if answerJson == "" {
			continue
		}
		var answer map[string]any
		if json.Unmarshal([]byte(answerJson), &answer) != nil {
			return "", nil, false
		}
		sources, _ := answer["web_results"].([]any)
		if len(sources) == 0 {
			sources, _ = answer["extra_web_results"].([]any)
		}
		return stringField(answer, "answer"), sources, true
	}
	return "", nil, false
}

// parseAskStream reads the server sent events of an ask request.
func parseAskStream(body string) (answer string, sources []any, metadata map[string]any) {
	metadata = map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		payload, ok := strings.CutPrefix(strings.TrimRight(line, "\r"), "data: ")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == "{}" {
			continue
		}

		var event map[string]any
		if json.Unmarshal([]byte(payload), &event) != nil {
			continue
		}
		if backendUuid, ok := event["backend_uuid"]; ok {
			metadata["backend_uuid"] = backendUuid
		}
		if text, ok := event["text"].(string); ok && stringField(event, "step_type") == "FINAL" {
			if a, s, found := finalAnswer(text); found {
				answer, sources = a, s
			}
		}
		if blocks, ok := event["blocks"].([]any); ok && answer == "" {
			for _, raw := range blocks {
				block, _ := raw.(map[string]any)
				usage := stringField(block, "intended_usage")
				if usage != "ask_text_0_markdown" && usage != "ask_text" {
					continue
				}
				markdown, _ := block["markdown_block"].(map[string]any)
				if a := stringField(markdown, "answer"); a != "" {
					answer = a
					break
				}
			}
		}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "No answer received"
	}
	if sources == nil {
		sources = []any{}
	}
	return answer, sources, metadata
}

func (s *Service) Perplexity(ctx context.Context, prompt string, opts PerplexityOptions) (PerplexityAnswer, error) {
	ctx, span := tracer.Start(ctx, "Perplexity")
	defer span.End()

	session, err := s.perplexitySession(ctx)
	if err != nil {
		span.RecordError(err)
		return PerplexityAnswer{}, apiutil.Upstream("Failed to establish Perplexity session", err)
	}
	cookies, err := session.askCookies()
	if err != nil {
		return PerplexityAnswer{}, err
	}

	payload := map[string]any{
		"params": map[string]any{
			"last_backend_uuid":   uuid.NewString(),
			"read_write_token":    uuid.NewString(),
			"attachments":         []any{},
			"language":            "en-US",
			"timezone":            "Asia/Dhaka",
			"search_focus":        opts.SearchFocus,
			"sources":             []string{"web"},
			"frontend_uuid":       uuid.NewString(),
			"mode":                opts.Mode,
			"model_preference":    opts.Model,
			"version":             session.version,
			"is_related_query":    false,
			"is_sponsored":        false,
			"prompt_source":       "user",
			"query_source":        "followup",
			"is_incognito":        false,
			"skip_search_enabled": true,
			"source":              "mweb",
		},
		"query_str": prompt,
	}

	req := s.perplexity.R().
		SetContext(ctx).
		SetCookies(cookies).
		SetHeaders(map[string]string{
			"accept":           "text/event-stream",
			"content-type":     "application/json",
			"origin":           s.perplexity.BaseURL,
			"x-requested-with": "mark.via.gp",
			"x-request-id":     uuid.NewString(),
			"cache-control":    "no-cache",
			"pragma":           "no-cache",
		}).
		SetBody(payload)
	if strings.Contains(session.csrfToken, "|") {
		req.SetHeader("x-csrf-token", session.csrfToken)
	}

	res, err := req.Post(session.askUrl)
	if err != nil {
		span.RecordError(err)
		return PerplexityAnswer{}, apiutil.Upstream("Perplexity request failed", err)
	}
	if res.StatusCode() != http.StatusOK {
		return PerplexityAnswer{}, apiutil.Upstream(fmt.Sprintf("Failed to fetch data: HTTP %d", res.StatusCode()), nil)
	}

	answer, sources, metadata := parseAskStream(res.String())
	return PerplexityAnswer{
		Prompt:    prompt,
		Answer:    answer,
		Sources:   sources,
		Metadata:  metadata,
		Mode:      opts.Mode,
		Model:     opts.Model,
		Timestamp: session.timestamp,
	}, nil
}
