package bindb

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"toolbox-backend/lib/countries"
	"toolbox-backend/lib/textutil"
	"toolbox-backend/services/bindb/db"
)

var columnAliases = map[string]string{
	"bin":         "bin",
	"iin":         "bin",
	"number":      "bin",
	"brand":       "brand",
	"scheme":      "brand",
	"vendor":      "brand",
	"type":        "type",
	"level":       "level",
	"category":    "level",
	"issuer":      "issuer",
	"bank":        "issuer",
	"bankname":    "issuer",
	"countrycode": "country_code",
	"isocode2":    "country_code",
	"alpha2":      "country_code",
	"iso":         "country_code",
	"countryname": "country_name",
	"country":     "country_name",
}

// Import upserts every row of a csv file with a header row into the bin
// table and returns the number of rows written.
func (s Service) Import(ctx context.Context, r io.Reader) (int, error) {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	columns := map[string]int{}
	for i, h := range header {
		name, ok := columnAliases[textutil.NormalizeName(h)]
		if !ok {
			continue
		}
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	if _, ok := columns["bin"]; !ok {
		return 0, fmt.Errorf("csv has no bin column")
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	count := 0
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}

		bin := digitsOf(field(record, "bin"))
		if len(bin) < 6 || len(bin) > 8 {
			slog.DebugContext(ctx, "skipping invalid bin row", "line", line, "bin", field(record, "bin"))
			continue
		}

		countryCode := strings.ToUpper(field(record, "country_code"))
		countryName := field(record, "country_name")
		if countryCode == "" && countryName != "" {
			if c, err := countries.Lookup(countryName); err == nil {
				countryCode = c.Code
			}
		}
		if countryName == "" && countryCode != "" {
			countryName = countries.Name(countryCode)
		}

		err = txqry.UpsertBin(ctx, db.UpsertBinParams{
			Bin:         bin,
			Brand:       strings.ToUpper(field(record, "brand")),
			Type:        strings.ToUpper(field(record, "type")),
			Level:       strings.ToUpper(field(record, "level")),
			Issuer:      field(record, "issuer"),
			CountryCode: countryCode,
			CountryName: countryName,
		})
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		count++
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "imported bins", "count", count)
	return count, nil
}

func (s Service) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Import(ctx, f)
}
