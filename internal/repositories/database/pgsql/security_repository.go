package pgsql

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// PgxSecurityRepository implements the security reader port using pgxpool.
type PgxSecurityRepository struct {
	BaseRepository
}

func newPgxSecurityRepository(db *pgxpool.Pool) *PgxSecurityRepository {
	return &PgxSecurityRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// EarliestSecurityDates returns, per currency of the user's active securities,
// the earliest acquisition date.
func (r *PgxSecurityRepository) EarliestSecurityDates(ctx context.Context, userID string) ([]domain.CurrencyNeed, error) {
	query := `
		SELECT currency_code, MIN(acquired_at)
		FROM securities
		WHERE user_id = $1 AND is_active
		GROUP BY currency_code
		ORDER BY currency_code ASC;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query earliest security dates", err)
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
		return nil, apperrors.NewAppError(500, "failed to read earliest security dates", err)
	}
	return needs, nil
}
