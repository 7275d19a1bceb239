package shortener

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("short url not found")

type Record struct {
	ShortCode   string
	LongUrl     string
	Clicks      int64
	CreatedAt   time.Time
	LastClicked *time.Time
}

// Store persists short url records, short codes are unique.
type Store interface {
	// Create inserts the record unless its short code already exists, in
	// which case the existing record is returned with created = false.
	Create(ctx context.Context, record Record) (existing Record, created bool, err error)
	Get(ctx context.Context, code string) (Record, error)
	// RecordClick atomically increments the click count and returns the
	// updated record.
	RecordClick(ctx context.Context, code string, now time.Time) (Record, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
