package tts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/restyutil"
	"toolbox-backend/lib/textutil"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/tts")

const (
	DefaultHostTemplate = "https://translate.google.{tld}"
	DefaultExpiry       = time.Minute
	maxChunkLength      = 100
)

var filenameRegex = regexp.MustCompile(`^tts_[A-Za-z0-9]+\.mp3$`)

type Options struct {
	// HostTemplate is the speech endpoint host, "{tld}" is replaced by
	// the accent's top level domain.
	HostTemplate string
	Dir          string
	Expiry       time.Duration
	Output       restyutil.InstrumentOutput
}

type Service struct {
	client       *resty.Client
	hostTemplate string
	dir          string
	expiry       time.Duration
}

func NewService(opts Options) (Service, error) {
	if opts.HostTemplate == "" {
		opts.HostTemplate = DefaultHostTemplate
	}
	if opts.Dir == "" {
		opts.Dir = filepath.Join(os.TempDir(), "toolbox-tts")
	}
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultExpiry
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return Service{}, err
	}
	return Service{
		client: restyutil.NewClient(restyutil.ClientOptions{
			Timeout:    time.Second * 20,
			TracerName: "services/tts/http",
			Output:     opts.Output,
		}),
		hostTemplate: opts.HostTemplate,
		dir:          opts.Dir,
		expiry:       opts.Expiry,
	}, nil
}

// ResolveLanguage accepts a language code in any case or a language name
// close enough to a known one ("french", "Portugese").
func ResolveLanguage(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "en", nil
	}
	for code := range languageNames {
		if strings.EqualFold(code, input) {
			return code, nil
		}
	}

	codes := make([]string, 0, len(languageNames))
	names := make([]string, 0, len(languageNames))
	for code, name := range languageNames {
		codes = append(codes, code)
		names = append(names, name)
	}
	idx, _ := textutil.BestMatch(input, names, 0.9)
	if idx < 0 {
		return "", apiutil.InvalidInput("Unsupported language: %s", input)
	}
	return codes[idx], nil
}

// resolveTld validates an accent against the language's regional voices,
// an empty accent uses the default "com" host.
func resolveTld(lang, accent string) (string, error) {
	accent = strings.ToLower(strings.TrimSpace(accent))
	if accent == "" {
		return "com", nil
	}
	base, _, _ := strings.Cut(lang, "-")
	list, ok := accentTable[base]
	if !ok {
		supported := make([]string, 0, len(accentTable))
		for l := range accentTable {
			supported = append(supported, l)
		}
		slices.Sort(supported)
		return "", apiutil.InvalidInput(
			"Language '%s' does not support accents. Only these languages support accents: %s",
			lang, strings.Join(supported, ", "),
		)
	}
	tlds := make([]string, len(list))
	for i, a := range list {
		tlds[i] = a.Tld
	}
	if !slices.Contains(tlds, accent) {
		return "", apiutil.InvalidInput("Invalid accent for %s. Valid accents: %s", lang, strings.Join(tlds, ", "))
	}
	return accent, nil
}

// splitText breaks text into chunks of at most `max` runes, preferring
// word boundaries. Words longer than `max` are cut.
func splitText(text string, max int) []string {
	var chunks []string
	current := strings.Builder{}
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > max {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:max]))
			word = string(runes[max:])
		}
		length := utf8.RuneCountInString(current.String())
		if length > 0 && length+1+utf8.RuneCountInString(word) > max {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	flush()
	return chunks
}

type File struct {
	Filename  string
	SizeBytes int
	Language  string
	Accent    string
}

func (s Service) fetchChunk(ctx context.Context, host, lang, chunk string, idx, total int) ([]byte, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":       "UTF-8",
			"client":   "tw-ob",
			"tl":       lang,
			"q":        chunk,
			"total":    strconv.Itoa(total),
			"idx":      strconv.Itoa(idx),
			"textlen":  strconv.Itoa(utf8.RuneCountInString(chunk)),
			"ttsspeed": "1",
		}).
		Get(host + "/translate_tts")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("speech endpoint returned %s", res.Status())
	}
	return res.Body(), nil
}

// Generate synthesizes the text to an mp3 file that is removed after the
// service's expiry.
func (s Service) Generate(ctx context.Context, text, lang, accent string) (File, error) {
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return File{}, apiutil.InvalidInput("Text parameter is required")
	}
	lang, err := ResolveLanguage(lang)
	if err != nil {
		return File{}, err
	}
	tld, err := resolveTld(lang, accent)
	if err != nil {
		return File{}, err
	}
	host := strings.ReplaceAll(s.hostTemplate, "{tld}", tld)

	chunks := splitText(text, maxChunkLength)
	audio := bytes.Buffer{}
	for i, chunk := range chunks {
		data, err := s.fetchChunk(ctx, host, lang, chunk, i, len(chunks))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch speech chunk")
			return File{}, apiutil.Upstream("Failed to generate speech", err)
		}
		audio.Write(data)
	}

	id, err := random.String(16)
	if err != nil {
		return File{}, err
	}
	filename := "tts_" + id + ".mp3"
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, audio.Bytes(), 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write speech file")
		return File{}, err
	}
	time.AfterFunc(s.expiry, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to delete tts file", "path", path, "err", err)
			return
		}
		slog.Debug("deleted tts file", "path", path)
	})

	if accent == "" {
		accent = "default"
	}
	slog.InfoContext(ctx, "generated tts file", "filename", filename, "size", audio.Len())
	return File{
		Filename:  filename,
		SizeBytes: audio.Len(),
		Language:  lang,
		Accent:    accent,
	}, nil
}

// Path returns the location of a generated file that has not expired.
func (s Service) Path(filename string) (string, error) {
	if !filenameRegex.MatchString(filename) {
		return "", apiutil.NotFound("File not found or expired")
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", apiutil.NotFound("File not found or expired")
	}
	return path, nil
}

// Sweep removes generated files older than the expiry, this catches files
// whose removal timer was lost to a restart.
func (s Service) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !filenameRegex.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < s.expiry {
			continue
		}
		err = os.Remove(filepath.Join(s.dir, entry.Name()))
		if err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
