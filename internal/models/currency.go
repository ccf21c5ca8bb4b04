package models

// Currency is the persistence model for a supported currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Precision    int    `json:"precision"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
