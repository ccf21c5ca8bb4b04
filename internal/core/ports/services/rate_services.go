package services

import (
	"context"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// RateRefreshSvc records today's spot rate for every currency pair in use.
type RateRefreshSvc interface {
	// RefreshAll fetches today's rate for all C(n,2) in-use pairs. Per-pair
	// failures are recorded in the summary, never returned as an error.
	RefreshAll(ctx context.Context) (*domain.RefreshSummary, error)

	// RefreshAtStartupIfStale runs RefreshAll unless a rate dated today
	// already exists. Safe to call from a detached goroutine: it recovers and
	// logs instead of panicking.
	RefreshAtStartupIfStale(ctx context.Context)
}

// RateBackfillSvc loads historical daily rates far enough back to cover a
// user's transaction history.
type RateBackfillSvc interface {
	// BackfillForUser backfills every (foreign, reporting) pair the user
	// needs. accountIDs optionally restricts which accounts are considered.
	BackfillForUser(ctx context.Context, userID string, accountIDs []string) (*domain.BackfillSummary, error)

	// BackfillAllAtStartup backfills every user holding a foreign-currency
	// account. Fire-and-forget: failures are logged, never returned.
	BackfillAllAtStartup(ctx context.Context)
}

// ExchangeRateReaderSvc exposes stored rates to the API surface.
type ExchangeRateReaderSvc interface {
	// GetExchangeRate retrieves the most recent rate between two currencies.
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// ListRatesForPair retrieves the stored daily series for a pair.
	ListRatesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error)
}
