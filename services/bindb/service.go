package bindb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/lib/countries"
	"toolbox-backend/services/bindb/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/bindb")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

type Info struct {
	Bin         string `json:"bin"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
	Level       string `json:"level"`
	Issuer      string `json:"issuer"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	CountryFlag string `json:"country_flag"`
}

func infoFromRow(row db.Bin) Info {
	name := row.CountryName
	if name == "" {
		name = countries.Name(row.CountryCode)
	}
	return Info{
		Bin:         row.Bin,
		Brand:       row.Brand,
		Type:        row.Type,
		Level:       row.Level,
		Issuer:      row.Issuer,
		CountryCode: row.CountryCode,
		CountryName: name,
		CountryFlag: countries.Flag(row.CountryCode),
	}
}

func digitsOf(s string) string {
	var out strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// Lookup finds the most specific bin matching the leading 6 to 8 digits
// of a card number.
func (s Service) Lookup(ctx context.Context, number string) (Info, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	digits := digitsOf(number)
	if len(digits) < 6 {
		return Info{}, apiutil.InvalidInput("BIN must contain at least 6 digits")
	}
	longest := min(len(digits), 8)
	span.SetAttributes(attribute.String("bin", digits[:6]))

	for length := longest; length >= 6; length-- {
		row, err := s.qry.GetBin(ctx, digits[:length])
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to query bin")
			return Info{}, err
		}
		return infoFromRow(row), nil
	}
	return Info{}, apiutil.NotFound("No information found for BIN %s", digits[:6])
}

// ByCountry lists bins issued in a country, "UK" is accepted for "GB".
func (s Service) ByCountry(ctx context.Context, country string, amount int) ([]Info, error) {
	ctx, span := tracer.Start(ctx, "ByCountry")
	defer span.End()

	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "UK" {
		code = "GB"
	}
	if len(code) != 2 {
		resolved, err := countries.Lookup(country)
		if err != nil {
			return nil, apiutil.InvalidInput("Invalid country '%s'", country)
		}
		code = resolved.Code
	}
	span.SetAttributes(attribute.String("country", code))

	rows, err := s.qry.ListBinsByCountry(ctx, db.ListBinsByCountryParams{
		CountryCode: code,
		Limit:       int64(amount),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query bins")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apiutil.NotFound("No BINs found for country code %s", code)
	}
	out := make([]Info, len(rows))
	for i, r := range rows {
		out[i] = infoFromRow(r)
	}
	return out, nil
}

// ByBank lists bins whose issuer contains `bank`, case-insensitive.
func (s Service) ByBank(ctx context.Context, bank string, amount int) ([]Info, error) {
	ctx, span := tracer.Start(ctx, "ByBank")
	defer span.End()

	rows, err := s.qry.ListBinsByIssuer(ctx, db.ListBinsByIssuerParams{
		Issuer: strings.TrimSpace(bank),
		Limit:  int64(amount),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query bins")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apiutil.NotFound("No BINs found for bank %s", bank)
	}
	out := make([]Info, len(rows))
	for i, r := range rows {
		out[i] = infoFromRow(r)
	}
	return out, nil
}

func (s Service) Count(ctx context.Context) (int64, error) {
	return s.qry.CountBins(ctx)
}
