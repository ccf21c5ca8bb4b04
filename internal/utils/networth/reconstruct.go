// Package networth holds the pure valuation-reconstruction functions: the
// backward ledger replay that produces native-currency monthly balances, and
// the date-bucketed rate table used to convert them into one reporting
// currency. Keeping the two separate keeps replay and FX logic independently
// testable.
package networth

import (
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReplayMonthlyBalances reconstructs the account's end-of-month balance, in
// its native currency, for each requested month (oldest first). It starts
// from the current balance and walks backwards, reversing each month's
// transactions to obtain the previous month's closing balance.
//
// Value-tracked asset accounts get three corrections: months before the
// acquisition date are excluded entirely; months before the earliest
// transaction use the recorded opening balance instead of the replayed value
// (the replay is only valid back to the first transaction); and an account
// with no transactions whose opening balance differs from its current
// balance uses the opening balance for every month except the most recent.
//
// The returned map contains one entry per month the account contributes to.
func ReplayMonthlyBalances(account domain.Account, txns []domain.Transaction, months []domain.Month) map[domain.Month]decimal.Decimal {
	balances := make(map[domain.Month]decimal.Decimal, len(months))
	if len(months) == 0 {
		return balances
	}

	// Brokerage accounts track market value, not the ledger sum.
	running := account.Balance
	if account.AccountType == domain.AccountTypeInvestment && account.MarketValue != nil {
		running = *account.MarketValue
	}

	txnsByMonth := make(map[domain.Month]decimal.Decimal)
	var earliestTxn *domain.Month
	for _, txn := range txns {
		m := domain.MonthOf(txn.TransactionDate)
		txnsByMonth[m] = txnsByMonth[m].Add(txn.Amount)
		if earliestTxn == nil || m.Before(*earliestTxn) {
			earliestTxn = &m
		}
	}

	latest := months[len(months)-1]
	for i := len(months) - 1; i >= 0; i-- {
		m := months[i]
		balances[m] = running
		running = running.Sub(txnsByMonth[m])
	}

	if account.AccountType == domain.AccountTypeAsset {
		applyAssetCorrections(account, balances, months, latest, earliestTxn, len(txns) > 0)
	}
	return balances
}

func applyAssetCorrections(account domain.Account, balances map[domain.Month]decimal.Decimal, months []domain.Month, latest domain.Month, earliestTxn *domain.Month, hasTxns bool) {
	var acquired *domain.Month
	if account.AcquiredAt != nil {
		m := domain.MonthOf(*account.AcquiredAt)
		acquired = &m
	}

	for _, m := range months {
		if acquired != nil && m.Before(*acquired) {
			delete(balances, m)
			continue
		}
		switch {
		case hasTxns && earliestTxn != nil && m.Before(*earliestTxn):
			// Appreciation baked into the current value must not be
			// projected back past the first transaction.
			balances[m] = account.OpeningBalance
		case !hasTxns && m != latest && !account.OpeningBalance.Equal(account.Balance):
			balances[m] = account.OpeningBalance
		}
	}
}

// pairKey identifies a directed currency pair in a rate table.
type pairKey struct {
	from, to string
}

// RateTable holds the best-known rate per directed pair for one month.
type RateTable struct {
	rates map[pairKey]decimal.Decimal
}

// BuildMonthRateTable selects, per pair, the latest historical rate dated on
// or before the month's last day, defaulting to the earliest available rate
// when none exists at or before that date. For the most recent month,
// todayRates are merged in as a fallback source. history must be ordered by
// rate date ascending.
func BuildMonthRateTable(history []domain.ExchangeRate, todayRates []domain.ExchangeRate, month domain.Month, isLatestMonth bool) RateTable {
	monthEnd := month.LastDay()
	best := make(map[pairKey]decimal.Decimal)
	earliest := make(map[pairKey]decimal.Decimal)

	for _, r := range history {
		key := pairKey{r.FromCurrencyCode, r.ToCurrencyCode}
		if _, ok := earliest[key]; !ok {
			earliest[key] = r.Rate
		}
		if !domain.DateOnly(r.RateDate).After(monthEnd) {
			best[key] = r.Rate
		}
	}

	// Pairs with nothing at or before the month end degrade to their oldest
	// known quote.
	for key, rate := range earliest {
		if _, ok := best[key]; !ok {
			best[key] = rate
		}
	}

	if isLatestMonth {
		for _, r := range todayRates {
			key := pairKey{r.FromCurrencyCode, r.ToCurrencyCode}
			if _, ok := best[key]; !ok {
				best[key] = r.Rate
			}
		}
	}

	return RateTable{rates: best}
}

// Convert converts value from one currency into another using the table:
// identity for the same currency, the direct rate when stored in that
// direction, the inverted reverse rate otherwise. The boolean is false when
// no rate is known in either direction; the caller decides how to degrade.
func (t RateTable) Convert(value decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return value, true
	}
	if rate, ok := t.rates[pairKey{from, to}]; ok {
		return value.Mul(rate), true
	}
	if rate, ok := t.rates[pairKey{to, from}]; ok && !rate.IsZero() {
		return value.Div(rate), true
	}
	return decimal.Zero, false
}
