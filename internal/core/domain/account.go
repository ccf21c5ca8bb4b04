package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for reporting purposes.
type AccountType string

const (
	AccountTypeChecking     AccountType = "CHECKING"
	AccountTypeSavings      AccountType = "SAVINGS"
	AccountTypeCash         AccountType = "CASH"
	AccountTypeInvestment   AccountType = "INVESTMENT"
	AccountTypeAsset        AccountType = "ASSET" // one-off value-tracked asset (vehicle, property)
	AccountTypeCreditCard   AccountType = "CREDIT_CARD"
	AccountTypeLoan         AccountType = "LOAN"
	AccountTypeMortgage     AccountType = "MORTGAGE"
	AccountTypeLineOfCredit AccountType = "LINE_OF_CREDIT"
)

// IsLiability reports whether balances of this type count toward liabilities.
func (t AccountType) IsLiability() bool {
	switch t {
	case AccountTypeCreditCard, AccountTypeLoan, AccountTypeMortgage, AccountTypeLineOfCredit:
		return true
	}
	return false
}

// Account represents a financial account held by a user.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"` // native currency
	Balance        decimal.Decimal `json:"balance"`      // current ledger balance
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	// MarketValue holds the current total market value (holdings + cash) for
	// brokerage-style accounts; nil when not applicable or unknown.
	MarketValue *decimal.Decimal `json:"marketValue,omitempty"`
	OpenedAt    time.Time        `json:"openedAt"`
	// AcquiredAt is set for value-tracked assets; months before it are
	// excluded from reconstruction.
	AcquiredAt *time.Time `json:"acquiredAt,omitempty"`
	IsClosed   bool       `json:"isClosed"`
	AuditFields
}

// Security represents a holding (stock, fund, crypto) owned by a user.
type Security struct {
	SecurityID   string    `json:"securityID"`
	UserID       string    `json:"userID"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currencyCode"`
	AcquiredAt   time.Time `json:"acquiredAt"`
	IsActive     bool      `json:"isActive"`
	AuditFields
}
