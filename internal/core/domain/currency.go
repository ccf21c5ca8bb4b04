package domain

import "regexp"

// currencyCodePattern matches a canonical ISO-4217 style code.
var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency represents a supported currency.
// Static/system currencies have an empty CreatedBy; user-defined ones record
// their creator.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name         string `json:"name"`         // e.g., "US Dollar"
	Symbol       string `json:"symbol"`       // e.g., "$"
	Precision    int    `json:"precision"`    // minor unit digits, 0-4
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// IsValidCurrencyCode reports whether code is exactly three uppercase ASCII letters.
func IsValidCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}

// ResolvedCurrency is the outcome of a successful free-text resolution.
// Name/Symbol/Precision are only populated when the code has catalog metadata.
type ResolvedCurrency struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	Precision    int    `json:"precision"`
	// InCatalog is false when the code came from the external fallback and is
	// best-effort only.
	InCatalog bool `json:"inCatalog"`
}
