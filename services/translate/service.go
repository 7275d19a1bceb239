package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/translate")

const DefaultBaseUrl = "https://translate.googleapis.com"

type Translation struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

type Options struct {
	BaseUrl string
	Output  restyutil.InstrumentOutput
}

type Service struct {
	client *resty.Client
}

func NewService(opts Options) Service {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	return Service{
		client: restyutil.NewClient(restyutil.ClientOptions{
			BaseUrl:    opts.BaseUrl,
			Timeout:    time.Second * 15,
			TracerName: "services/translate/http",
			Output:     opts.Output,
		}),
	}
}

// parseSingle reads the positional gtx response,
// [[["Hola","Hello",null,null,10],...],null,"en",...].
func parseSingle(body []byte) (text string, source string, err error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return "", "", err
	}
	if len(root) == 0 {
		return "", "", nil
	}

	var sentences [][]any
	if err := json.Unmarshal(root[0], &sentences); err != nil {
		return "", "", err
	}
	out := strings.Builder{}
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		if segment, ok := sentence[0].(string); ok {
			out.WriteString(segment)
		}
	}
	if len(root) > 2 {
		_ = json.Unmarshal(root[2], &source)
	}
	return out.String(), source, nil
}

func (s Service) Translate(ctx context.Context, text, lang string) (Translation, error) {
	ctx, span := tracer.Start(ctx, "Translate")
	defer span.End()

	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := Languages[lang]; !ok {
		return Translation{}, apiutil.InvalidInput("Invalid language code")
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     "auto",
			"tl":     lang,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translate request failed")
		return Translation{}, apiutil.Upstream("Translation request failed", err)
	}
	if res.StatusCode() != http.StatusOK {
		return Translation{}, apiutil.Upstream("Translation service returned "+res.Status(), nil)
	}

	translated, source, err := parseSingle(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse translation")
		return Translation{}, apiutil.Upstream("Unexpected translation response", err)
	}
	if translated == "" {
		return Translation{}, apiutil.Upstream("Empty translation", nil)
	}
	return Translation{
		TranslatedText: translated,
		SourceLang:     source,
		TargetLang:     lang,
	}, nil
}
