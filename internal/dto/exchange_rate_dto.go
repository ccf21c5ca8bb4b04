package dto

import (
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	RateDate         time.Time       `json:"rateDate"`
	Source           string          `json:"source,omitempty"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		RateDate:         rate.RateDate,
		Source:           rate.Source,
	}
}

// ToListExchangeRateResponse converts domain rates to ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// PairRefreshResultResponse is the outcome of refreshing one currency pair.
type PairRefreshResultResponse struct {
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
	Updated          bool   `json:"updated"`
	Error            string `json:"error,omitempty"`
}

// RefreshSummaryResponse summarizes a full spot-rate refresh run.
type RefreshSummaryResponse struct {
	TotalPairs int                         `json:"totalPairs"`
	Updated    int                         `json:"updated"`
	Failed     int                         `json:"failed"`
	Pairs      []PairRefreshResultResponse `json:"pairs"`
}

// ToRefreshSummaryResponse converts a domain.RefreshSummary to its DTO.
func ToRefreshSummaryResponse(summary *domain.RefreshSummary) RefreshSummaryResponse {
	pairs := make([]PairRefreshResultResponse, len(summary.Pairs))
	for i, p := range summary.Pairs {
		pairs[i] = PairRefreshResultResponse{
			FromCurrencyCode: p.FromCurrencyCode,
			ToCurrencyCode:   p.ToCurrencyCode,
			Updated:          p.Updated,
			Error:            p.Error,
		}
	}
	return RefreshSummaryResponse{
		TotalPairs: summary.TotalPairs,
		Updated:    summary.Updated,
		Failed:     summary.Failed,
		Pairs:      pairs,
	}
}

// BackfillRequest optionally restricts a backfill run to specific accounts.
type BackfillRequest struct {
	AccountIDs []string `json:"accountIDs,omitempty"`
}

// PairBackfillResultResponse is the outcome of backfilling one currency pair.
type PairBackfillResultResponse struct {
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
	RatesLoaded      int    `json:"ratesLoaded"`
	AlreadyCovered   bool   `json:"alreadyCovered"`
	Error            string `json:"error,omitempty"`
}

// BackfillSummaryResponse summarizes a per-user historical backfill run.
type BackfillSummaryResponse struct {
	TotalPairs       int                          `json:"totalPairs"`
	Successful       int                          `json:"successful"`
	Failed           int                          `json:"failed"`
	TotalRatesLoaded int                          `json:"totalRatesLoaded"`
	Pairs            []PairBackfillResultResponse `json:"pairs"`
}

// ToBackfillSummaryResponse converts a domain.BackfillSummary to its DTO.
func ToBackfillSummaryResponse(summary *domain.BackfillSummary) BackfillSummaryResponse {
	pairs := make([]PairBackfillResultResponse, len(summary.Pairs))
	for i, p := range summary.Pairs {
		pairs[i] = PairBackfillResultResponse{
			FromCurrencyCode: p.FromCurrencyCode,
			ToCurrencyCode:   p.ToCurrencyCode,
			RatesLoaded:      p.RatesLoaded,
			AlreadyCovered:   p.AlreadyCovered,
			Error:            p.Error,
		}
	}
	return BackfillSummaryResponse{
		TotalPairs:       summary.TotalPairs,
		Successful:       summary.Successful,
		Failed:           summary.Failed,
		TotalRatesLoaded: summary.TotalRatesLoaded,
		Pairs:            pairs,
	}
}
