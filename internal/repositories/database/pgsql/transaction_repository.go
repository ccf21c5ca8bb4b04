package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/models"
	"github.com/nestegg-app/nestegg_backend/internal/utils/mapping"
)

// PgxTransactionRepository implements the transaction reader port using pgxpool.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListTransactionsByUser retrieves all transactions against the user's
// accounts, ordered by transaction_date ascending.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT
			t.transaction_id, t.account_id, t.amount, t.currency_code,
			t.transaction_date, t.description,
			t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.transaction_date ASC;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	var modelTxns []models.Transaction
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID, &m.AccountID, &m.Amount, &m.CurrencyCode,
			&m.TransactionDate, &m.Description,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read transactions", err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}
