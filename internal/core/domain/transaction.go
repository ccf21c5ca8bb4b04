package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry against an account. Amount is signed
// in the account's native currency: positive amounts increase the balance.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	AuditFields
}
