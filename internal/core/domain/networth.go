package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Month identifies one calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t (UTC).
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// LastDay returns the last instant's calendar day of the month (UTC).
func (m Month) LastDay() time.Time {
	return time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	d := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Month{Year: d.Year(), Month: d.Month()}
}

// String renders the month as "2025-06".
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthsEndingAt builds n consecutive months ending at last, oldest first.
func MonthsEndingAt(last Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, n)
	m := last
	for i := n - 1; i >= 0; i-- {
		months[i] = m
		m = m.Prev()
	}
	return months
}

// MonthlyNetWorthPoint is one month of the reconstructed series, in the
// reporting currency, rounded to whole units. Never persisted.
type MonthlyNetWorthPoint struct {
	Month       Month           `json:"month"`
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"netWorth"`
}
