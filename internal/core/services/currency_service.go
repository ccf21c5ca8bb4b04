package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/dto"
)

// CurrencyService serves the currency catalog: the immutable compiled-in
// system currencies overlaid with user-defined rows from the database.
type CurrencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
	catalog      map[string]domain.Currency // static entries, never mutated
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{
		currencyRepo: currencyRepo,
		catalog:      staticCatalog(),
	}
}

var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

// GetCurrencyByCode retrieves a currency by its 3-letter code. Database rows
// take precedence so user edits to metadata win over the static defaults.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if !domain.IsValidCurrencyCode(code) {
		return nil, fmt.Errorf("%w: currency code must be 3 uppercase letters", apperrors.ErrValidation)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err == nil {
		return currency, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	if static, ok := s.catalog[code]; ok {
		return &static, nil
	}
	return nil, apperrors.ErrNotFound
}

// ListCurrencies retrieves all available currencies, static and user-defined,
// sorted by code.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	merged := make(map[string]domain.Currency, len(s.catalog))
	for code, c := range s.catalog {
		merged[code] = c
	}

	stored, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	for _, c := range stored {
		merged[c.CurrencyCode] = c
	}

	currencies := make([]domain.Currency, 0, len(merged))
	for _, c := range merged {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].CurrencyCode < currencies[j].CurrencyCode
	})
	return currencies, nil
}

// CreateCurrency handles the creation of a new user-defined currency.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if !domain.IsValidCurrencyCode(code) {
		return nil, fmt.Errorf("%w: currency code must be 3 uppercase letters", apperrors.ErrValidation)
	}
	if req.Precision < 0 || req.Precision > 4 {
		return nil, fmt.Errorf("%w: precision must be between 0 and 4", apperrors.ErrValidation)
	}
	if _, exists := s.catalog[code]; exists {
		return nil, fmt.Errorf("%w: currency %s is a system currency", apperrors.ErrDuplicate, code)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: code,
		Name:         req.Name,
		Symbol:       req.Symbol,
		Precision:    req.Precision,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}
	return &currency, nil
}
