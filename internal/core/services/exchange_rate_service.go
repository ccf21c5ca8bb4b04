package services

import (
	"context"
	"fmt"

	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
)

// ExchangeRateService exposes stored rates for the API surface.
type ExchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade) *ExchangeRateService {
	return &ExchangeRateService{rateRepo: rateRepo}
}

var _ portssvc.ExchangeRateReaderSvc = (*ExchangeRateService)(nil)

// GetExchangeRate retrieves the most recent rate between two currencies,
// following the inverted pair when the direct one is not stored.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	if !domain.IsValidCurrencyCode(fromCode) || !domain.IsValidCurrencyCode(toCode) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency pair %q/%q", fromCode, toCode))
	}
	return s.rateRepo.FindExchangeRate(ctx, fromCode, toCode)
}

// ListRatesForPair retrieves the stored daily series for a pair, oldest first.
func (s *ExchangeRateService) ListRatesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error) {
	if !domain.IsValidCurrencyCode(fromCode) || !domain.IsValidCurrencyCode(toCode) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency pair %q/%q", fromCode, toCode))
	}
	return s.rateRepo.ListRatesForPair(ctx, fromCode, toCode)
}
