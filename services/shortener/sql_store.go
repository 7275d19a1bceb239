package shortener

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"toolbox-backend/services/shortener/db"
)

// SqlStore keeps records in sqlite or libsql.
type SqlStore struct {
	db  *sql.DB
	qry *db.Queries
}

func NewSqlStore(database *sql.DB) SqlStore {
	return SqlStore{
		db:  database,
		qry: db.New(database),
	}
}

func recordFromRow(row db.ShortUrl) Record {
	r := Record{
		ShortCode: row.ShortCode,
		LongUrl:   row.LongUrl,
		Clicks:    row.Clicks,
		CreatedAt: time.Unix(row.CreatedAt, 0).UTC(),
	}
	if row.LastClicked.Valid {
		t := time.Unix(row.LastClicked.Int64, 0).UTC()
		r.LastClicked = &t
	}
	return r
}

func (s SqlStore) Create(ctx context.Context, record Record) (Record, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	affected, err := txqry.CreateShortUrl(ctx, db.CreateShortUrlParams{
		ShortCode: record.ShortCode,
		LongUrl:   record.LongUrl,
		CreatedAt: record.CreatedAt.Unix(),
	})
	if err != nil {
		return Record{}, false, err
	}
	row, err := txqry.GetShortUrl(ctx, record.ShortCode)
	if err != nil {
		return Record{}, false, err
	}
	err = tx.Commit()
	if err != nil {
		return Record{}, false, err
	}
	return recordFromRow(row), affected > 0, nil
}

func (s SqlStore) Get(ctx context.Context, code string) (Record, error) {
	row, err := s.qry.GetShortUrl(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return recordFromRow(row), nil
}

func (s SqlStore) RecordClick(ctx context.Context, code string, now time.Time) (Record, error) {
	row, err := s.qry.RecordClick(ctx, db.RecordClickParams{
		Now:       now.Unix(),
		ShortCode: code,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return recordFromRow(row), nil
}

func (s SqlStore) Delete(ctx context.Context, code string) error {
	affected, err := s.qry.DeleteShortUrl(ctx, code)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s SqlStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.qry.ListShortUrls(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = recordFromRow(r)
	}
	return out, nil
}

func (s SqlStore) Close() error {
	return s.db.Close()
}
