package pgsql

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/models"
	"github.com/nestegg-app/nestegg_backend/internal/utils/mapping"
)

const accountColumns = `
	account_id, user_id, name, account_type, currency_code,
	balance, opening_balance, market_value, opened_at, acquired_at, is_closed,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements the account reader port using pgxpool.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(db *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListAccountsByUser retrieves all non-closed accounts for a user.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND NOT is_closed
		ORDER BY opened_at ASC;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	var modelAccounts []models.Account
	for rows.Next() {
		var m models.Account
		err := rows.Scan(
			&m.AccountID, &m.UserID, &m.Name, &m.AccountType, &m.CurrencyCode,
			&m.Balance, &m.OpeningBalance, &m.MarketValue, &m.OpenedAt, &m.AcquiredAt, &m.IsClosed,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		modelAccounts = append(modelAccounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read accounts", err)
	}

	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

// DistinctCurrenciesInUse returns the distinct currency codes referenced by
// any non-closed account, active security, or transaction.
func (r *PgxAccountRepository) DistinctCurrenciesInUse(ctx context.Context) ([]string, error) {
	query := `
		SELECT currency_code FROM accounts WHERE NOT is_closed
		UNION
		SELECT currency_code FROM securities WHERE is_active
		UNION
		SELECT currency_code FROM transactions
		ORDER BY currency_code ASC;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list currencies in use", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency code", err)
		}
		codes = append(codes, strings.ToUpper(code))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read currencies in use", err)
	}
	return codes, nil
}

// EarliestAccountDates returns, per currency of the user's non-closed
// accounts, the earliest date the account held value. Acquisition dates count
// when they precede the opening date.
func (r *PgxAccountRepository) EarliestAccountDates(ctx context.Context, userID string, accountIDs []string) ([]domain.CurrencyNeed, error) {
	query := `
		SELECT currency_code, MIN(LEAST(opened_at, COALESCE(acquired_at, opened_at)))
		FROM accounts
		WHERE user_id = $1 AND NOT is_closed
		  AND (cardinality($2::text[]) = 0 OR account_id = ANY($2))
		GROUP BY currency_code
		ORDER BY currency_code ASC;
	`

	if accountIDs == nil {
		accountIDs = []string{}
	}
	rows, err := r.Pool.Query(ctx, query, userID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query earliest account dates", err)
	}
	defer rows.Close()

	var needs []domain.CurrencyNeed
	for rows.Next() {
		var need domain.CurrencyNeed
		if err := rows.Scan(&need.CurrencyCode, &need.EarliestDate); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency need", err)
		}
		need.CurrencyCode = strings.ToUpper(need.CurrencyCode)
		needs = append(needs, need)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read earliest account dates", err)
	}
	return needs, nil
}

// ListUserIDsWithForeignAccounts returns the IDs of users holding at least one
// non-closed account denominated in a currency other than their reporting
// currency.
func (r *PgxAccountRepository) ListUserIDsWithForeignAccounts(ctx context.Context, defaultCurrency string) ([]string, error) {
	query := `
		SELECT DISTINCT a.user_id
		FROM accounts a
		JOIN users u ON u.user_id = a.user_id
		WHERE NOT a.is_closed
		  AND a.currency_code <> COALESCE(u.reporting_currency_code, $1)
		ORDER BY a.user_id ASC;
	`

	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(defaultCurrency))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users with foreign accounts", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user ID", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read users with foreign accounts", err)
	}
	return userIDs, nil
}
