package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/utils/networth"
	"github.com/shopspring/decimal"
)

// NetWorthService reconstructs a user's historical balances into a monthly
// assets/liabilities/net-worth series in their reporting currency. It is
// read-only and derives everything per request; nothing is persisted.
type NetWorthService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	userRepo        portsrepo.UserRepositoryFacade
	defaultCurrency string
}

// NewNetWorthService creates a new NetWorthService.
func NewNetWorthService(
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	defaultCurrency string,
) *NetWorthService {
	return &NetWorthService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		rateRepo:        rateRepo,
		userRepo:        userRepo,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.NetWorthSvc = (*NetWorthService)(nil)

// NetWorthSeries returns one point per month for the trailing months window,
// most recent month last. Missing rate coverage degrades accuracy (nearest
// available quote) rather than failing the report.
func (s *NetWorthService) NetWorthSeries(ctx context.Context, userID string, months int) ([]domain.MonthlyNetWorthPoint, error) {
	if months < 1 {
		return nil, fmt.Errorf("months must be at least 1")
	}

	reporting, err := s.userRepo.GetReportingCurrency(ctx, userID, s.defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to determine reporting currency: %w", err)
	}

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	txns, err := s.transactionRepo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	history, todayRates, err := s.loadRates(ctx, accounts, reporting)
	if err != nil {
		return nil, err
	}

	window := domain.MonthsEndingAt(domain.MonthOf(time.Now()), months)
	return s.reconstruct(ctx, accounts, txns, history, todayRates, reporting, window), nil
}

// loadRates fetches the rate history for every currency the accounts touch,
// plus today's rows as a fallback source for the most recent month.
func (s *NetWorthService) loadRates(ctx context.Context, accounts []domain.Account, reporting string) (history, todayRates []domain.ExchangeRate, err error) {
	codeSet := map[string]bool{reporting: true}
	for _, a := range accounts {
		codeSet[a.CurrencyCode] = true
	}
	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}

	history, err = s.rateRepo.ListRatesForCurrencies(ctx, codes, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load rate history: %w", err)
	}

	today := domain.DateOnly(time.Now())
	for _, r := range history {
		if domain.DateOnly(r.RateDate).Equal(today) {
			todayRates = append(todayRates, r)
		}
	}
	return history, todayRates, nil
}

// reconstruct replays every account and aggregates the converted balances by
// month. Accounts whose pair has no quote at all are skipped for that month,
// never mixed unconverted into the aggregate.
func (s *NetWorthService) reconstruct(ctx context.Context, accounts []domain.Account, txns []domain.Transaction, history, todayRates []domain.ExchangeRate, reporting string, window []domain.Month) []domain.MonthlyNetWorthPoint {
	txnsByAccount := make(map[string][]domain.Transaction)
	for _, t := range txns {
		txnsByAccount[t.AccountID] = append(txnsByAccount[t.AccountID], t)
	}

	type accountSeries struct {
		account  domain.Account
		balances map[domain.Month]decimal.Decimal
	}
	series := make([]accountSeries, 0, len(accounts))
	for _, a := range accounts {
		series = append(series, accountSeries{
			account:  a,
			balances: networth.ReplayMonthlyBalances(a, txnsByAccount[a.AccountID], window),
		})
	}

	points := make([]domain.MonthlyNetWorthPoint, 0, len(window))
	latest := window[len(window)-1]
	for _, month := range window {
		table := networth.BuildMonthRateTable(history, todayRates, month, month == latest)

		assets, liabilities := decimal.Zero, decimal.Zero
		for _, sr := range series {
			balance, ok := sr.balances[month]
			if !ok {
				continue
			}
			converted, ok := table.Convert(balance, sr.account.CurrencyCode, reporting)
			if !ok {
				s.LogDebug(ctx, "No rate known for account currency, skipping contribution",
					slog.String("account_id", sr.account.AccountID),
					slog.String("currency", sr.account.CurrencyCode),
					slog.String("month", month.String()),
				)
				continue
			}
			if sr.account.AccountType.IsLiability() {
				liabilities = liabilities.Add(converted.Abs())
			} else {
				assets = assets.Add(converted)
			}
		}

		assets = assets.Round(0)
		liabilities = liabilities.Round(0)
		points = append(points, domain.MonthlyNetWorthPoint{
			Month:       month,
			Assets:      assets,
			Liabilities: liabilities,
			NetWorth:    assets.Sub(liabilities),
		})
	}
	return points
}
