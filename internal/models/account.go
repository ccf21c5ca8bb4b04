package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persistence model for a user's account.
type Account struct {
	AccountID      string           `json:"accountID"`
	UserID         string           `json:"userID"`
	Name           string           `json:"name"`
	AccountType    string           `json:"accountType"`
	CurrencyCode   string           `json:"currencyCode"`
	Balance        decimal.Decimal  `json:"balance"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	MarketValue    *decimal.Decimal `json:"marketValue,omitempty"`
	OpenedAt       time.Time        `json:"openedAt"`
	AcquiredAt     *time.Time       `json:"acquiredAt,omitempty"`
	IsClosed       bool             `json:"isClosed"`
	AuditFields
}

// Security is the persistence model for a holding.
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

// Transaction is the persistence model for a ledger entry.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	AuditFields
}
