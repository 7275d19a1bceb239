package whois

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type Record struct {
	Domain              string            `json:"domain"`
	RegisteredOn        string            `json:"registered_on"`
	ExpiresOn           string            `json:"expires_on"`
	UpdatedOn           string            `json:"updated_on"`
	Status              string            `json:"status"`
	NameServers         []string          `json:"name_servers"`
	Registrar           string            `json:"registrar"`
	IanaId              string            `json:"iana_id"`
	RegistrarEmail      string            `json:"registrar_email"`
	RegistrarAbuseEmail string            `json:"registrar_abuse_email"`
	RegistrarAbusePhone string            `json:"registrar_abuse_phone"`
	RegistrantState     string            `json:"registrant_state"`
	RegistrantCountry   string            `json:"registrant_country"`
	RawPairs            map[string]string `json:"raw_pairs"`
}

func normalizeLabel(label string) string {
	label = htmlutil.CleanText(label)
	label = strings.TrimSpace(strings.TrimRight(label, ":"))
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// parsePairs reads every df-row label and value of a whois.com result
// page, later rows overwrite earlier rows with the same label.
func parsePairs(doc *goquery.Document) map[string]string {
	pairs := map[string]string{}
	doc.Find("div.df-row").Each(func(_ int, row *goquery.Selection) {
		label := row.Find("div.df-label").First()
		value := row.Find("div.df-value").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		key := normalizeLabel(label.Text())
		if key == "" {
			return
		}
		pairs[key] = htmlutil.CleanLines(htmlutil.GetTextWithBreaks(value.Get(0)))
	})
	return pairs
}

func first(pairs map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := pairs[k]; v != "" {
			return v
		}
	}
	return ""
}

func buildRecord(doc *goquery.Document, pairs map[string]string) Record {
	record := Record{
		Domain:              first(pairs, "domain"),
		RegisteredOn:        first(pairs, "registered_on", "registration_date"),
		ExpiresOn:           first(pairs, "expires_on", "expiry_date", "registrar_registration_expiration_date"),
		UpdatedOn:           first(pairs, "updated_on", "last_updated"),
		Status:              first(pairs, "status"),
		NameServers:         []string{},
		Registrar:           first(pairs, "registrar"),
		IanaId:              first(pairs, "iana_id"),
		RegistrarEmail:      first(pairs, "email"),
		RegistrarAbuseEmail: first(pairs, "abuse_email"),
		RegistrarAbusePhone: first(pairs, "abuse_phone"),
		RegistrantState:     first(pairs, "state"),
		RegistrantCountry:   first(pairs, "country"),
		RawPairs:            pairs,
	}
	if record.Domain == "" {
		record.Domain = htmlutil.SelectionText(doc.Find("h1").First())
	}

	for _, line := range strings.Split(first(pairs, "name_servers", "name_server"), "\n") {
		line = strings.Trim(strings.TrimSpace(line), ".")
		if line != "" {
			record.NameServers = append(record.NameServers, line)
		}
	}
	return record
}

func (s *Service) scrapeWhois(ctx context.Context, domain string) (Record, error) {
	ctx, span := tracer.Start(ctx, "scrapeWhois")
	defer span.End()

	res, err := s.whois.R().
		SetContext(ctx).
		SetPathParam("domain", domain).
		Get("/whois/{domain}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch whois page")
		return Record{}, apiutil.Upstream("Failed to fetch WHOIS data", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return Record{}, apiutil.NotFound("No WHOIS data found for %s", domain)
	}
	if res.StatusCode() != http.StatusOK {
		return Record{}, apiutil.Upstream("Failed to fetch WHOIS page", nil)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse whois page")
		return Record{}, err
	}
	return buildRecord(doc, parsePairs(doc)), nil
}
