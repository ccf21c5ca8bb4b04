package dto

import (
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currencycode"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Precision    int    `json:"precision" binding:"gte=0,lte=4"`
	UserID       string `json:"userID" binding:"required"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string    `json:"currencyCode"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Precision     int       `json:"precision"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		Precision:     curr.Precision,
		IsActive:      curr.IsActive,
		CreatedAt:     curr.CreatedAt,
		CreatedBy:     curr.CreatedBy,
		LastUpdatedAt: curr.LastUpdatedAt,
		LastUpdatedBy: curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}

// ResolveCurrencyRequest carries the free-text input to resolve.
type ResolveCurrencyRequest struct {
	Query string `json:"query" binding:"required"`
}

// ResolveCurrencyResponse is the outcome of a resolution attempt. Currency is
// null when the input did not resolve.
type ResolveCurrencyResponse struct {
	Currency *ResolvedCurrencyResponse `json:"currency"`
}

// ResolvedCurrencyResponse describes one resolved currency.
type ResolvedCurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	Precision    int    `json:"precision"`
	InCatalog    bool   `json:"inCatalog"`
}

// ToResolveCurrencyResponse converts the resolver outcome to its DTO.
func ToResolveCurrencyResponse(resolved *domain.ResolvedCurrency) ResolveCurrencyResponse {
	if resolved == nil {
		return ResolveCurrencyResponse{}
	}
	return ResolveCurrencyResponse{
		Currency: &ResolvedCurrencyResponse{
			CurrencyCode: resolved.CurrencyCode,
			Name:         resolved.Name,
			Symbol:       resolved.Symbol,
			Precision:    resolved.Precision,
			InCatalog:    resolved.InCatalog,
		},
	}
}
