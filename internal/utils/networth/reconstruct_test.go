package networth

import (
	"testing"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func months(year int, first time.Month, n int) []domain.Month {
	return domain.MonthsEndingAt(domain.Month{Year: year, Month: first + time.Month(n-1)}, n)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReplayMonthlyBalances_ReversesTransactions(t *testing.T) {
	account := domain.Account{
		AccountID:      "acc-1",
		AccountType:    domain.AccountTypeChecking,
		CurrencyCode:   "USD",
		Balance:        dec("1500"),
		OpeningBalance: dec("1000"),
	}
	txns := []domain.Transaction{
		{AccountID: "acc-1", Amount: dec("200"), TransactionDate: time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)},
		{AccountID: "acc-1", Amount: dec("300"), TransactionDate: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)},
		{AccountID: "acc-1", Amount: dec("-100"), TransactionDate: time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)},
	}
	ms := months(2025, time.April, 3) // Apr, May, Jun

	balances := ReplayMonthlyBalances(account, txns, ms)

	require.Len(t, balances, 3)
	// June closes at the current balance; May reverses June's net +200;
	// April reverses May's +200 as well.
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.June}].Equal(dec("1500")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.May}].Equal(dec("1300")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.April}].Equal(dec("1100")))
}

func TestReplayMonthlyBalances_InvestmentUsesMarketValue(t *testing.T) {
	market := dec("25000")
	account := domain.Account{
		AccountID:    "acc-2",
		AccountType:  domain.AccountTypeInvestment,
		CurrencyCode: "USD",
		Balance:      dec("18000"),
		MarketValue:  &market,
	}
	ms := months(2025, time.June, 1)

	balances := ReplayMonthlyBalances(account, nil, ms)

	require.Len(t, balances, 1)
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.June}].Equal(market))
}

func TestReplayMonthlyBalances_AssetWithoutTxnsUsesOpeningBalance(t *testing.T) {
	account := domain.Account{
		AccountID:      "acc-3",
		AccountType:    domain.AccountTypeAsset,
		CurrencyCode:   "USD",
		Balance:        dec("30000"), // appreciated since purchase
		OpeningBalance: dec("20000"),
	}
	ms := months(2025, time.April, 3)

	balances := ReplayMonthlyBalances(account, nil, ms)

	require.Len(t, balances, 3)
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.June}].Equal(dec("30000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.May}].Equal(dec("20000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.April}].Equal(dec("20000")))
}

func TestReplayMonthlyBalances_AssetExcludedBeforeAcquisition(t *testing.T) {
	acquired := time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)
	account := domain.Account{
		AccountID:      "acc-4",
		AccountType:    domain.AccountTypeAsset,
		CurrencyCode:   "USD",
		Balance:        dec("20000"),
		OpeningBalance: dec("20000"),
		AcquiredAt:     &acquired,
	}
	ms := months(2025, time.March, 4) // Mar through Jun

	balances := ReplayMonthlyBalances(account, nil, ms)

	require.Len(t, balances, 2)
	_, ok := balances[domain.Month{Year: 2025, Month: time.April}]
	assert.False(t, ok)
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.May}].Equal(dec("20000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.June}].Equal(dec("20000")))
}

func TestReplayMonthlyBalances_AssetOpeningBalanceBeforeFirstTxn(t *testing.T) {
	account := domain.Account{
		AccountID:      "acc-5",
		AccountType:    domain.AccountTypeAsset,
		CurrencyCode:   "USD",
		Balance:        dec("26000"),
		OpeningBalance: dec("20000"),
	}
	// One upward revaluation in May; months before it must show the
	// opening balance, not a back-projection of the current value.
	txns := []domain.Transaction{
		{AccountID: "acc-5", Amount: dec("6000"), TransactionDate: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
	}
	ms := months(2025, time.March, 4)

	balances := ReplayMonthlyBalances(account, txns, ms)

	assert.True(t, balances[domain.Month{Year: 2025, Month: time.June}].Equal(dec("26000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.May}].Equal(dec("26000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.April}].Equal(dec("20000")))
	assert.True(t, balances[domain.Month{Year: 2025, Month: time.March}].Equal(dec("20000")))
}

func rateRow(from, to, rate string, date time.Time) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             dec(rate),
		RateDate:         date,
	}
}

func TestBuildMonthRateTable_PicksLatestAtOrBeforeMonthEnd(t *testing.T) {
	history := []domain.ExchangeRate{
		rateRow("CAD", "USD", "0.72", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)),
		rateRow("CAD", "USD", "0.73", time.Date(2025, time.May, 28, 0, 0, 0, 0, time.UTC)),
		rateRow("CAD", "USD", "0.74", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
	}
	table := BuildMonthRateTable(history, nil, domain.Month{Year: 2025, Month: time.May}, false)

	got, ok := table.Convert(dec("100"), "CAD", "USD")
	require.True(t, ok)
	assert.True(t, got.Equal(dec("73")))
}

func TestBuildMonthRateTable_FallsBackToEarliestKnownRate(t *testing.T) {
	history := []domain.ExchangeRate{
		rateRow("CAD", "USD", "0.73", time.Date(2025, time.May, 28, 0, 0, 0, 0, time.UTC)),
		rateRow("CAD", "USD", "0.74", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
	}
	// January predates all history; the oldest quote stands in.
	table := BuildMonthRateTable(history, nil, domain.Month{Year: 2025, Month: time.January}, false)

	got, ok := table.Convert(dec("100"), "CAD", "USD")
	require.True(t, ok)
	assert.True(t, got.Equal(dec("73")))
}

func TestBuildMonthRateTable_TodayRatesFillLatestMonthOnly(t *testing.T) {
	today := []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.10", time.Date(2025, time.June, 28, 0, 0, 0, 0, time.UTC)),
	}

	latest := BuildMonthRateTable(nil, today, domain.Month{Year: 2025, Month: time.June}, true)
	got, ok := latest.Convert(dec("50"), "EUR", "USD")
	require.True(t, ok)
	assert.True(t, got.Equal(dec("55")))

	earlier := BuildMonthRateTable(nil, today, domain.Month{Year: 2025, Month: time.May}, false)
	_, ok = earlier.Convert(dec("50"), "EUR", "USD")
	assert.False(t, ok)
}

func TestRateTableConvert(t *testing.T) {
	history := []domain.ExchangeRate{
		rateRow("CAD", "USD", "0.8", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}
	table := BuildMonthRateTable(history, nil, domain.Month{Year: 2025, Month: time.June}, false)

	same, ok := table.Convert(dec("42"), "USD", "USD")
	require.True(t, ok)
	assert.True(t, same.Equal(dec("42")))

	direct, ok := table.Convert(dec("100"), "CAD", "USD")
	require.True(t, ok)
	assert.True(t, direct.Equal(dec("80")))

	inverted, ok := table.Convert(dec("80"), "USD", "CAD")
	require.True(t, ok)
	assert.True(t, inverted.Equal(dec("100")))

	_, ok = table.Convert(dec("10"), "JPY", "USD")
	assert.False(t, ok)
}
