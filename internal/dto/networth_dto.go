package dto

import (
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetWorthPointResponse is one month of the reconstructed net worth series.
type NetWorthPointResponse struct {
	Month       string          `json:"month"` // "2006-01"
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"netWorth"`
}

// NetWorthSeriesResponse is the full reporting-currency series, oldest first.
type NetWorthSeriesResponse struct {
	Points []NetWorthPointResponse `json:"points"`
}

// ToNetWorthSeriesResponse converts domain points to the series DTO.
func ToNetWorthSeriesResponse(points []domain.MonthlyNetWorthPoint) NetWorthSeriesResponse {
	res := NetWorthSeriesResponse{Points: make([]NetWorthPointResponse, len(points))}
	for i, p := range points {
		res.Points[i] = NetWorthPointResponse{
			Month:       p.Month.String(),
			Assets:      p.Assets,
			Liabilities: p.Liabilities,
			NetWorth:    p.NetWorth,
		}
	}
	return res
}
