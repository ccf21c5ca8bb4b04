package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for one
// calendar day. Rows are unique on (from, to, rate_date); the engines store a
// pair in exactly one direction per day and readers invert when needed.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // always positive
	RateDate         time.Time       `json:"rateDate"`
	Source           string          `json:"source"` // provenance tag, e.g. "yahoo-finance"
	AuditFields
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
