package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/nestegg-app/nestegg_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		SecurityRepo:     newPgxSecurityRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
