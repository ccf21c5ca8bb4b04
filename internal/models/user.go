package models

// User is the persistence model for an application user.
type User struct {
	UserID                string  `json:"userID"`
	Name                  string  `json:"name"`
	ReportingCurrencyCode *string `json:"reportingCurrencyCode,omitempty"`
	AuditFields
}
