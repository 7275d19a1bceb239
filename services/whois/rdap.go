package whois

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"toolbox-backend/lib/apiutil"

	"go.opentelemetry.io/otel/codes"
)

type rdapEvent struct {
	Action string `json:"eventAction"`
	Date   string `json:"eventDate"`
}

type rdapPublicId struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type rdapEntity struct {
	Roles      []string        `json:"roles"`
	VcardArray json.RawMessage `json:"vcardArray"`
	PublicIds  []rdapPublicId  `json:"publicIds"`
	Entities   []rdapEntity    `json:"entities"`
}

type rdapDomain struct {
	Handle      string   `json:"handle"`
	LdhName     string   `json:"ldhName"`
	Status      []string `json:"status"`
	Events      []rdapEvent `json:"events"`
	Nameservers []struct {
		LdhName string `json:"ldhName"`
	} `json:"nameservers"`
	Entities []rdapEntity `json:"entities"`
}

// vcardField returns the first text value of a property in a jCard
// array, ["vcard", [["fn", {}, "text", "Example"], ...]].
func vcardField(raw json.RawMessage, property string) string {
	var card []json.RawMessage
	if json.Unmarshal(raw, &card) != nil || len(card) < 2 {
		return ""
	}
	var props [][]any
	if json.Unmarshal(card[1], &props) != nil {
		return ""
	}
	for _, p := range props {
		if len(p) < 4 {
			continue
		}
		name, _ := p[0].(string)
		if name != property {
			continue
		}
		value, _ := p[3].(string)
		return value
	}
	return ""
}

type RdapRegistrar struct {
	Name       string `json:"name"`
	IanaId     string `json:"iana_id"`
	AbuseEmail string `json:"abuse_email"`
	AbusePhone string `json:"abuse_phone"`
}

type RdapRecord struct {
	Domain      string        `json:"domain"`
	Handle      string        `json:"handle"`
	Status      []string      `json:"status"`
	Registered  string        `json:"registered_on"`
	Expires     string        `json:"expires_on"`
	Updated     string        `json:"updated_on"`
	NameServers []string      `json:"name_servers"`
	Registrar   RdapRegistrar `json:"registrar"`
}

func buildRdapRecord(domain string, d rdapDomain) RdapRecord {
	record := RdapRecord{
		Domain:      domain,
		Handle:      d.Handle,
		Status:      d.Status,
		NameServers: []string{},
	}
	if record.Status == nil {
		record.Status = []string{}
	}
	for _, e := range d.Events {
		switch e.Action {
		case "registration":
			record.Registered = e.Date
		case "expiration":
			record.Expires = e.Date
		case "last changed":
			record.Updated = e.Date
		}
	}
	for _, ns := range d.Nameservers {
		if ns.LdhName != "" {
			record.NameServers = append(record.NameServers, ns.LdhName)
		}
	}

	for _, entity := range d.Entities {
		if !slices.Contains(entity.Roles, "registrar") {
			continue
		}
		record.Registrar.Name = vcardField(entity.VcardArray, "fn")
		for _, id := range entity.PublicIds {
			if id.Type == "IANA Registrar ID" {
				record.Registrar.IanaId = id.Identifier
			}
		}
		for _, sub := range entity.Entities {
			if !slices.Contains(sub.Roles, "abuse") {
				continue
			}
			record.Registrar.AbuseEmail = vcardField(sub.VcardArray, "email")
			record.Registrar.AbusePhone = vcardField(sub.VcardArray, "tel")
		}
		break
	}
	return record
}

func (s *Service) fetchRdap(ctx context.Context, domain string) (RdapRecord, error) {
	ctx, span := tracer.Start(ctx, "fetchRdap")
	defer span.End()

	var body rdapDomain
	res, err := s.rdap.R().
		SetContext(ctx).
		SetPathParam("domain", domain).
		SetResult(&body).
		Get("/domain/{domain}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch rdap record")
		return RdapRecord{}, apiutil.Upstream("Failed to fetch RDAP data", err)
	}
	switch {
	case res.StatusCode() == http.StatusNotFound:
		return RdapRecord{}, apiutil.NotFound("No RDAP record found for %s", domain)
	case res.StatusCode() != http.StatusOK:
		return RdapRecord{}, apiutil.Upstream("RDAP registry returned "+res.Status(), nil)
	}
	return buildRdapRecord(domain, body), nil
}
