package services

import (
	"context"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// NetWorthSvc reconstructs historical multi-currency balances into a single
// reporting-currency series. Pure and read-only; safe for concurrent calls.
type NetWorthSvc interface {
	// NetWorthSeries returns one point per month for the trailing months
	// window, most recent month last.
	NetWorthSeries(ctx context.Context, userID string, months int) ([]domain.MonthlyNetWorthPoint, error)
}
