package providers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one candidate instrument returned by the provider's free-text search.
type Quote struct {
	Symbol    string // e.g. "EURUSD=X"
	ShortName string
	QuoteType string // "CURRENCY" for forex instruments
}

// PricePoint is one raw point of a daily price series. Close is nil when the
// provider returned a gap for that timestamp.
type PricePoint struct {
	Timestamp time.Time
	Close     *float64
}

// MarketDataProvider abstracts the external exchange-rate provider. All
// methods are best-effort: implementations return errors for non-2xx
// responses, malformed payloads, and network failures, and callers are
// expected to degrade rather than propagate.
type MarketDataProvider interface {
	// Search runs a free-text instrument search.
	Search(ctx context.Context, query string) ([]Quote, error)

	// SpotRate fetches the current rate for a currency pair.
	SpotRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)

	// DailyHistory fetches the daily close series for a pair from since to now.
	DailyHistory(ctx context.Context, fromCurrency, toCurrency string, since time.Time) ([]PricePoint, error)
}
