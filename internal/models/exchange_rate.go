package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the persistence model for one daily rate row.
// Unique on (from_currency_code, to_currency_code, rate_date).
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	RateDate         time.Time       `json:"rateDate"`
	Source           string          `json:"source"`
	AuditFields
}
