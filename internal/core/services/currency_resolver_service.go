package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
)

// forexPairSuffix marks a provider symbol as a foreign-exchange pair
// (e.g. "EURUSD=X").
const forexPairSuffix = "=X"

// resolutionStatus tags the outcome of one resolution tier.
type resolutionStatus int

const (
	resolutionNotFound resolutionStatus = iota
	resolutionResolved
	resolutionAmbiguous
)

// tierResult is the tagged outcome of a single tier, so each tier stays
// independently testable instead of a nest of conditionals.
type tierResult struct {
	status resolutionStatus
	code   string
}

// CurrencyResolverService turns free-text queries into canonical 3-letter
// currency codes: exact code match, then catalog name match, then the
// external provider's free-text search as a best-effort fallback.
type CurrencyResolverService struct {
	BaseService
	currencySvc     portssvc.CurrencyReaderSvc
	provider        providers.MarketDataProvider
	defaultCurrency string
}

// NewCurrencyResolverService creates a new CurrencyResolverService.
func NewCurrencyResolverService(currencySvc portssvc.CurrencyReaderSvc, provider providers.MarketDataProvider, defaultCurrency string) *CurrencyResolverService {
	return &CurrencyResolverService{
		currencySvc:     currencySvc,
		provider:        provider,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.CurrencyResolverSvc = (*CurrencyResolverService)(nil)

// Resolve returns the canonical currency for query, or nil when the input is
// too short, ambiguous, or unknown. Every provider failure degrades to nil;
// the catalog tiers never call out and therefore cannot fail.
func (s *CurrencyResolverService) Resolve(ctx context.Context, query string) (*domain.ResolvedCurrency, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 2 {
		// Too ambiguous to be worth a remote call.
		return nil, nil
	}

	catalog, err := s.currencySvc.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load currency catalog for resolution")
		return nil, nil
	}

	if r := resolveByCode(trimmed, catalog); r.status == resolutionResolved {
		return s.withMetadata(ctx, r.code, catalog), nil
	}
	switch r := resolveByName(trimmed, catalog); r.status {
	case resolutionResolved:
		return s.withMetadata(ctx, r.code, catalog), nil
	case resolutionAmbiguous:
		s.LogDebug(ctx, "Currency name query is ambiguous", slog.String("query", trimmed))
		return nil, nil
	}

	r := s.resolveExternally(ctx, trimmed)
	if r.status != resolutionResolved {
		return nil, nil
	}
	return s.withMetadata(ctx, r.code, catalog), nil
}

// resolveByCode is the exact-code tier: an uppercased query matching a known
// code wins outright.
func resolveByCode(query string, catalog []domain.Currency) tierResult {
	upper := strings.ToUpper(query)
	if !domain.IsValidCurrencyCode(upper) {
		return tierResult{status: resolutionNotFound}
	}
	for _, c := range catalog {
		if c.CurrencyCode == upper {
			return tierResult{status: resolutionResolved, code: upper}
		}
	}
	return tierResult{status: resolutionNotFound}
}

// resolveByName is the name tier: a case-insensitive exact name match wins
// outright; a unique substring match wins; zero or several substring matches
// are ambiguous and fall through rather than guessing.
func resolveByName(query string, catalog []domain.Currency) tierResult {
	lower := strings.ToLower(query)

	var substringMatches []string
	for _, c := range catalog {
		name := strings.ToLower(c.Name)
		if name == lower {
			return tierResult{status: resolutionResolved, code: c.CurrencyCode}
		}
		if strings.Contains(name, lower) {
			substringMatches = append(substringMatches, c.CurrencyCode)
		}
	}

	if len(substringMatches) == 1 {
		return tierResult{status: resolutionResolved, code: substringMatches[0]}
	}
	if len(substringMatches) > 1 {
		return tierResult{status: resolutionAmbiguous}
	}
	return tierResult{status: resolutionNotFound}
}

// resolveExternally is the provider tier: free-text search filtered to
// currency instruments, taking the first hit. The provider's result ordering
// is treated as best-effort relevance, not a guarantee.
func (s *CurrencyResolverService) resolveExternally(ctx context.Context, query string) tierResult {
	quotes, err := s.provider.Search(ctx, query)
	if err != nil {
		s.LogWarn(ctx, "Currency search against provider failed", slog.String("query", query), slog.String("error", err.Error()))
		return tierResult{status: resolutionNotFound}
	}

	for _, q := range quotes {
		if q.QuoteType != "CURRENCY" && !strings.HasSuffix(q.Symbol, forexPairSuffix) {
			continue
		}
		return tierResult{status: resolutionResolved, code: codeFromPairSymbol(q.Symbol, query)}
	}
	return tierResult{status: resolutionNotFound}
}

// codeFromPairSymbol extracts a 3-letter code from a 6-character pair symbol
// like "EURUSD=X": whichever half equals the uppercased query wins, base
// first. Symbols that are not 6 characters after removing the pair suffix
// fall back to the uppercased query itself, which may not be a real ISO code.
func codeFromPairSymbol(symbol, query string) string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	pair := strings.TrimSuffix(symbol, forexPairSuffix)
	if len(pair) != 6 {
		return upper
	}
	base, quote := pair[:3], pair[3:]
	if quote == upper {
		return quote
	}
	return base
}

// withMetadata attaches catalog metadata when the code has any, and runs the
// advisory tradability probe. A failed probe never invalidates the result.
func (s *CurrencyResolverService) withMetadata(ctx context.Context, code string, catalog []domain.Currency) *domain.ResolvedCurrency {
	resolved := &domain.ResolvedCurrency{CurrencyCode: code}
	for _, c := range catalog {
		if c.CurrencyCode == code {
			resolved.Name = c.Name
			resolved.Symbol = c.Symbol
			resolved.Precision = c.Precision
			resolved.InCatalog = true
			break
		}
	}

	if resolved.InCatalog && code != s.defaultCurrency {
		if _, err := s.provider.SpotRate(ctx, code, s.defaultCurrency); err != nil {
			s.LogDebug(ctx, "Tradability probe failed", slog.String("code", code), slog.String("error", err.Error()))
		}
	}
	return resolved
}
