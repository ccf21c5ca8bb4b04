package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

// rateSource is the provenance tag written with every fetched rate.
const rateSource = "yahoo-finance"

// RateRefreshService records today's spot rate for every currency pair in use.
type RateRefreshService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	provider    providers.MarketDataProvider
	concurrency int
}

// NewRateRefreshService creates a new RateRefreshService. concurrency bounds
// the parallel provider calls per invocation.
func NewRateRefreshService(rateRepo portsrepo.ExchangeRateRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, provider providers.MarketDataProvider, concurrency int) *RateRefreshService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RateRefreshService{
		rateRepo:    rateRepo,
		accountRepo: accountRepo,
		provider:    provider,
		concurrency: concurrency,
	}
}

var _ portssvc.RateRefreshSvc = (*RateRefreshService)(nil)

// RefreshAll fetches today's spot rate for all C(n,2) pairs of in-use
// currencies and upserts them into the rate store. Pairs are attempted
// independently: one pair's failure is recorded in its result entry and never
// aborts the siblings.
func (s *RateRefreshService) RefreshAll(ctx context.Context) (*domain.RefreshSummary, error) {
	codes, err := s.accountRepo.DistinctCurrenciesInUse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine currencies in use: %w", err)
	}

	sort.Strings(codes)
	pairs := currencyPairs(codes)
	summary := &domain.RefreshSummary{
		TotalPairs: len(pairs),
		Pairs:      make([]domain.PairRefreshResult, len(pairs)),
	}
	if len(pairs) == 0 {
		// Fewer than two currencies in use, nothing to convert between.
		return summary, nil
	}

	today := domain.DateOnly(time.Now())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			summary.Pairs[i] = s.refreshPair(gctx, pair[0], pair[1], today)
			return nil
		})
	}
	// Goroutines never return errors; failures live in the result slots.
	_ = g.Wait()

	for _, r := range summary.Pairs {
		if r.Updated {
			summary.Updated++
		} else {
			summary.Failed++
		}
	}

	s.LogInfo(ctx, "Rate refresh completed",
		slog.Int("total_pairs", summary.TotalPairs),
		slog.Int("updated", summary.Updated),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// refreshPair fetches and upserts one pair for the given day.
func (s *RateRefreshService) refreshPair(ctx context.Context, from, to string, date time.Time) domain.PairRefreshResult {
	result := domain.PairRefreshResult{FromCurrencyCode: from, ToCurrencyCode: to}

	spot, err := s.provider.SpotRate(ctx, from, to)
	if err != nil {
		result.Error = fmt.Sprintf("failed to fetch spot rate: %v", err)
		return result
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             spot,
		RateDate:         date,
		Source:           rateSource,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		result.Error = fmt.Sprintf("failed to store rate: %v", err)
		return result
	}

	result.Updated = true
	return result
}

// RefreshAtStartupIfStale runs a full refresh unless some rate dated today
// already exists, avoiding redundant provider calls on frequent restarts.
// Intended to run in a detached goroutine: any unexpected error or panic is
// logged and swallowed so process startup is never blocked or crashed.
func (s *RateRefreshService) RefreshAtStartupIfStale(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.GetLogger(ctx).Error("Startup rate refresh panicked", slog.Any("panic", r))
		}
	}()

	fresh, err := s.rateRepo.HasRateForDate(ctx, domain.DateOnly(time.Now()))
	if err != nil {
		s.LogError(ctx, err, "Startup rate staleness check failed")
		return
	}
	if fresh {
		s.LogDebug(ctx, "Rates already fetched today, skipping startup refresh")
		return
	}

	if _, err := s.RefreshAll(ctx); err != nil {
		s.LogError(ctx, err, "Startup rate refresh failed")
	}
}

// currencyPairs builds every unordered pair of the given codes, preserving
// the input ordering within each pair.
func currencyPairs(codes []string) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			pairs = append(pairs, [2]string{codes[i], codes[j]})
		}
	}
	return pairs
}
