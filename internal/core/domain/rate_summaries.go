package domain

import "time"

// CurrencyNeed records the earliest date a currency is required to have rate
// coverage for, derived from account openings and security acquisitions.
type CurrencyNeed struct {
	CurrencyCode string
	EarliestDate time.Time
}

// PairRefreshResult is the outcome of fetching today's spot rate for one pair.
type PairRefreshResult struct {
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
	Updated          bool   `json:"updated"`
	Error            string `json:"error,omitempty"`
}

// RefreshSummary aggregates a full refresh run. TotalPairs is always the full
// combinatorial count, whether or not individual pairs failed.
type RefreshSummary struct {
	TotalPairs int                 `json:"totalPairs"`
	Updated    int                 `json:"updated"`
	Failed     int                 `json:"failed"`
	Pairs      []PairRefreshResult `json:"pairs"`
}

// PairBackfillResult is the outcome of backfilling one currency pair.
// RatesLoaded is zero both for already-covered pairs and for series whose
// points were all filtered out; both are successes.
type PairBackfillResult struct {
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
	RatesLoaded      int    `json:"ratesLoaded"`
	AlreadyCovered   bool   `json:"alreadyCovered"`
	Error            string `json:"error,omitempty"`
}

// BackfillSummary aggregates a per-user historical backfill run.
type BackfillSummary struct {
	TotalPairs       int                  `json:"totalPairs"`
	Successful       int                  `json:"successful"`
	Failed           int                  `json:"failed"`
	TotalRatesLoaded int                  `json:"totalRatesLoaded"`
	Pairs            []PairBackfillResult `json:"pairs"`
}
