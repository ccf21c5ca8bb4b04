package repositories

import (
	"context"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// AccountReader defines the read-only account queries the rate engines and
// the reconstructor consume. Account CRUD itself lives outside this subsystem.
type AccountReader interface {
	// ListAccountsByUser retrieves all non-closed accounts for a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// DistinctCurrenciesInUse returns the distinct currency codes referenced
	// by any non-closed account, active security, or transaction.
	DistinctCurrenciesInUse(ctx context.Context) ([]string, error)

	// EarliestAccountDates returns, per currency held by the user's non-closed
	// accounts, the earliest account opening date. When accountIDs is
	// non-empty only those accounts are considered.
	EarliestAccountDates(ctx context.Context, userID string, accountIDs []string) ([]domain.CurrencyNeed, error)

	// ListUserIDsWithForeignAccounts returns the IDs of users holding at least
	// one non-closed account denominated in a currency other than their
	// reporting currency (defaultCurrency when unset).
	ListUserIDsWithForeignAccounts(ctx context.Context, defaultCurrency string) ([]string, error)
}

// SecurityReader defines the read-only security queries the backfill engine consumes.
type SecurityReader interface {
	// EarliestSecurityDates returns, per currency of the user's active
	// securities, the earliest acquisition date.
	EarliestSecurityDates(ctx context.Context, userID string) ([]domain.CurrencyNeed, error)
}

// TransactionReader defines the read-only transaction queries the reconstructor consumes.
type TransactionReader interface {
	// ListTransactionsByUser retrieves all transactions against the user's
	// accounts, ordered by transaction_date ascending.
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// AccountRepositoryFacade combines the account-side read interfaces.
type AccountRepositoryFacade interface {
	AccountReader
}

// SecurityRepositoryFacade combines the security-side read interfaces.
type SecurityRepositoryFacade interface {
	SecurityReader
}

// TransactionRepositoryFacade combines the transaction-side read interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
}
