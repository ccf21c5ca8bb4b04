package repositories

import (
	"context"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the most recent rate between two currencies,
	// inverting a reverse-direction row when only that is stored.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// HasRateForDate reports whether any rate row exists for the given calendar day.
	HasRateForDate(ctx context.Context, date time.Time) (bool, error)

	// CountRatesForPair counts stored rows for a pair, in either direction.
	CountRatesForPair(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (int, error)

	// ListRatesForCurrencies retrieves every rate row whose two codes are both
	// in codes, dated on or before until, ordered by rate_date ascending.
	ListRatesForCurrencies(ctx context.Context, codes []string, until time.Time) ([]domain.ExchangeRate, error)

	// ListRatesForPair retrieves rates for one pair (direct direction only),
	// ordered by rate_date ascending.
	ListRatesForPair(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate upserts one rate keyed by (from, to, rate_date).
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// SaveExchangeRates bulk-upserts a daily series in a single operation and
	// returns the number of rows written.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) (int, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
