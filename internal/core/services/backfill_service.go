package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// pairCoveredThreshold is the number of stored rows at or above which a pair
// is treated as already backfilled. A lone row from a same-day refresh must
// not mark a pair covered; two weeks of dailies should.
const pairCoveredThreshold = 10

// RateBackfillService loads historical daily rates far enough into the past
// to cover a user's transaction history.
type RateBackfillService struct {
	BaseService
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	securityRepo    portsrepo.SecurityRepositoryFacade
	userRepo        portsrepo.UserRepositoryFacade
	provider        providers.MarketDataProvider
	defaultCurrency string
	concurrency     int
}

// NewRateBackfillService creates a new RateBackfillService.
func NewRateBackfillService(
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	securityRepo portsrepo.SecurityRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	provider providers.MarketDataProvider,
	defaultCurrency string,
	concurrency int,
) *RateBackfillService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RateBackfillService{
		rateRepo:        rateRepo,
		accountRepo:     accountRepo,
		securityRepo:    securityRepo,
		userRepo:        userRepo,
		provider:        provider,
		defaultCurrency: defaultCurrency,
		concurrency:     concurrency,
	}
}

var _ portssvc.RateBackfillSvc = (*RateBackfillService)(nil)

// BackfillForUser determines which (foreign currency, reporting currency)
// pairs the user needs history for, how far back each must reach, and loads
// the missing daily series. Already-covered pairs are reported as successes
// with zero rates loaded. Failures are per-pair and never abort siblings.
func (s *RateBackfillService) BackfillForUser(ctx context.Context, userID string, accountIDs []string) (*domain.BackfillSummary, error) {
	reporting, err := s.userRepo.GetReportingCurrency(ctx, userID, s.defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to determine reporting currency: %w", err)
	}

	needs, err := s.collectCurrencyNeeds(ctx, userID, accountIDs, reporting)
	if err != nil {
		return nil, err
	}

	summary := &domain.BackfillSummary{
		TotalPairs: len(needs),
		Pairs:      make([]domain.PairBackfillResult, len(needs)),
	}
	if len(needs) == 0 {
		return summary, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, need := range needs {
		i, need := i, need
		g.Go(func() error {
			summary.Pairs[i] = s.backfillPair(gctx, need.CurrencyCode, reporting, need.EarliestDate)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range summary.Pairs {
		if r.Error == "" {
			summary.Successful++
			summary.TotalRatesLoaded += r.RatesLoaded
		} else {
			summary.Failed++
		}
	}

	s.LogInfo(ctx, "Historical backfill completed",
		slog.String("user_id", userID),
		slog.Int("total_pairs", summary.TotalPairs),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed),
		slog.Int("rates_loaded", summary.TotalRatesLoaded),
	)
	return summary, nil
}

// collectCurrencyNeeds merges the earliest-need dates derived from accounts
// and from securities, keeping the earlier date when a currency appears in
// both. Currencies with no determinable date are skipped, as is the
// reporting currency itself.
func (s *RateBackfillService) collectCurrencyNeeds(ctx context.Context, userID string, accountIDs []string, reporting string) ([]domain.CurrencyNeed, error) {
	accountNeeds, err := s.accountRepo.EarliestAccountDates(ctx, userID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to determine account currency needs: %w", err)
	}
	securityNeeds, err := s.securityRepo.EarliestSecurityDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine security currency needs: %w", err)
	}

	merged := make(map[string]time.Time)
	for _, n := range append(accountNeeds, securityNeeds...) {
		if n.CurrencyCode == reporting || n.EarliestDate.IsZero() {
			continue
		}
		if existing, ok := merged[n.CurrencyCode]; !ok || n.EarliestDate.Before(existing) {
			merged[n.CurrencyCode] = n.EarliestDate
		}
	}

	needs := make([]domain.CurrencyNeed, 0, len(merged))
	for code, date := range merged {
		needs = append(needs, domain.CurrencyNeed{CurrencyCode: code, EarliestDate: date})
	}
	sort.Slice(needs, func(i, j int) bool { return needs[i].CurrencyCode < needs[j].CurrencyCode })
	return needs, nil
}

// backfillPair loads the daily series for one pair, unless the store already
// holds a non-trivial number of rows for it.
func (s *RateBackfillService) backfillPair(ctx context.Context, from, to string, since time.Time) domain.PairBackfillResult {
	result := domain.PairBackfillResult{FromCurrencyCode: from, ToCurrencyCode: to}

	existing, err := s.rateRepo.CountRatesForPair(ctx, from, to)
	if err != nil {
		result.Error = fmt.Sprintf("failed to check existing coverage: %v", err)
		return result
	}
	if existing >= pairCoveredThreshold {
		result.AlreadyCovered = true
		return result
	}

	points, err := s.provider.DailyHistory(ctx, from, to, since)
	if err != nil || len(points) == 0 {
		result.Error = "No historical data available"
		return result
	}

	rates := s.seriesToRates(points, from, to, since)
	written, err := s.rateRepo.SaveExchangeRates(ctx, rates)
	if err != nil {
		result.Error = fmt.Sprintf("failed to store rates: %v", err)
		return result
	}

	// Zero is a valid success, e.g. every point predated the cutoff.
	result.RatesLoaded = written
	return result
}

// seriesToRates cleans a raw provider series into daily rate rows: points
// with a missing, non-finite or non-positive close are dropped, timestamps
// collapse to UTC calendar days, days strictly before the cutoff are dropped,
// and same-day duplicates keep the last point encountered since source
// timestamps are intraday.
//
// Rows are stored in sorted code order, the same orientation the refresh
// engine writes, so the store never holds both directions of a pair for one
// date. The fetched quote is from->to; it is inverted when the pair flips.
func (s *RateBackfillService) seriesToRates(points []providers.PricePoint, from, to string, cutoff time.Time) []domain.ExchangeRate {
	invert := from > to
	if invert {
		from, to = to, from
	}

	cutoffDay := domain.DateOnly(cutoff)
	now := time.Now()

	byDay := make(map[time.Time]decimal.Decimal)
	var order []time.Time
	for _, p := range points {
		if p.Close == nil || math.IsNaN(*p.Close) || math.IsInf(*p.Close, 0) || *p.Close <= 0 {
			continue
		}
		day := domain.DateOnly(p.Timestamp)
		if day.Before(cutoffDay) {
			continue
		}
		rate := decimal.NewFromFloat(*p.Close)
		if invert {
			rate = decimal.NewFromInt(1).Div(rate)
		}
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = rate
	}

	rates := make([]domain.ExchangeRate, 0, len(order))
	for _, day := range order {
		rates = append(rates, domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: from,
			ToCurrencyCode:   to,
			Rate:             byDay[day],
			RateDate:         day,
			Source:           rateSource,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		})
	}
	return rates
}

// BackfillAllAtStartup backfills every user who holds at least one
// foreign-currency account. Fire-and-forget relative to process boot: run it
// in a detached goroutine; any failure is logged and swallowed.
func (s *RateBackfillService) BackfillAllAtStartup(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.GetLogger(ctx).Error("Startup backfill panicked", slog.Any("panic", r))
		}
	}()

	userIDs, err := s.accountRepo.ListUserIDsWithForeignAccounts(ctx, s.defaultCurrency)
	if err != nil {
		s.LogError(ctx, err, "Startup backfill could not list users")
		return
	}

	for _, userID := range userIDs {
		if _, err := s.BackfillForUser(ctx, userID, nil); err != nil {
			s.LogError(ctx, err, "Startup backfill failed for user", slog.String("user_id", userID))
		}
	}
}
