package domain

// User represents an application user. ReportingCurrencyCode is the currency
// aggregate views convert into; empty means the system default applies.
type User struct {
	UserID                string `json:"userID"`
	Name                  string `json:"name"`
	ReportingCurrencyCode string `json:"reportingCurrencyCode,omitempty"`
	AuditFields
}
