package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/models"
)

// PgxUserRepository implements the user reader port using pgxpool.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, reporting_currency_code,
			created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE user_id = $1;
	`

	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.Name, &m.ReportingCurrencyCode,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user " + userID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find user", err)
	}

	user := domain.User{
		UserID: m.UserID,
		Name:   m.Name,
	}
	if m.ReportingCurrencyCode != nil {
		user.ReportingCurrencyCode = *m.ReportingCurrencyCode
	}
	user.CreatedAt = m.CreatedAt
	user.CreatedBy = m.CreatedBy
	user.LastUpdatedAt = m.LastUpdatedAt
	user.LastUpdatedBy = m.LastUpdatedBy
	return &user, nil
}

// GetReportingCurrency returns the user's reporting currency preference, or
// defaultCurrency when unset.
func (r *PgxUserRepository) GetReportingCurrency(ctx context.Context, userID string, defaultCurrency string) (string, error) {
	user, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.ReportingCurrencyCode == "" {
		return strings.ToUpper(defaultCurrency), nil
	}
	return strings.ToUpper(user.ReportingCurrencyCode), nil
}
