package cardgen

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"toolbox-backend/lib/apiutil"
	"toolbox-backend/services/bindb"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/cardgen")

const MaxAmount = 2000

type BinLookup interface {
	Lookup(ctx context.Context, number string) (bindb.Info, error)
}

type Service struct {
	bins BinLookup

	lock *sync.Mutex
	rand *rand.Rand
}

// `bins` may be nil, in which case bin details are always unknown.
func NewService(bins BinLookup) Service {
	seed := uint64(time.Now().UnixNano())
	return Service{
		bins: bins,
		lock: &sync.Mutex{},
		rand: rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

type BinDetails struct {
	Bank    string
	Country string
	Info    string
}

var unknownDetails = BinDetails{
	Bank:    "Unknown Bank",
	Country: "Unknown Country 🇺🇳",
	Info:    "Unknown Scheme - Unknown Type",
}

func (s Service) details(ctx context.Context, pattern string) BinDetails {
	if s.bins == nil {
		return unknownDetails
	}
	digits := strings.ReplaceAll(pattern, "x", "")
	info, err := s.bins.Lookup(ctx, digits)
	if err != nil {
		if !errors.Is(err, apiutil.ErrNotFound) {
			slog.WarnContext(ctx, "failed to look up bin details", "err", err)
		}
		return unknownDetails
	}

	out := BinDetails{
		Bank:    info.Issuer,
		Country: strings.TrimSpace(info.CountryName + " " + info.CountryFlag),
		Info:    info.Brand + " - " + info.Type,
	}
	if out.Bank == "" {
		out.Bank = unknownDetails.Bank
	}
	if info.CountryName == "" {
		out.Country = unknownDetails.Country
	}
	return out
}

type Result struct {
	Request Request
	Cards   []Card
	Details BinDetails
}

func (s Service) Generate(ctx context.Context, req Request, amount int) (Result, error) {
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()

	if amount < 1 || amount > MaxAmount {
		return Result{}, apiutil.InvalidInput("Invalid amount: Must be between 1 and %d", MaxAmount)
	}
	span.SetAttributes(
		attribute.String("pattern", req.Pattern),
		attribute.Int("amount", amount),
	)

	s.lock.Lock()
	cards := Generate(s.rand, req, amount)
	s.lock.Unlock()

	return Result{
		Request: req,
		Cards:   cards,
		Details: s.details(ctx, req.Pattern),
	}, nil
}
