package services

import (
	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider providers.MarketDataProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency service first since the resolver depends on it
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Resolver = NewCurrencyResolverService(container.Currency, provider, cfg.DefaultReportingCurrency)

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.Refresh = NewRateRefreshService(repos.ExchangeRateRepo, repos.AccountRepo, provider, cfg.FxFetchConcurrency)
	container.Backfill = NewRateBackfillService(
		repos.ExchangeRateRepo,
		repos.AccountRepo,
		repos.SecurityRepo,
		repos.UserRepo,
		provider,
		cfg.DefaultReportingCurrency,
		cfg.FxFetchConcurrency,
	)
	container.NetWorth = NewNetWorthService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.ExchangeRateRepo,
		repos.UserRepo,
		cfg.DefaultReportingCurrency,
	)

	return container
}
