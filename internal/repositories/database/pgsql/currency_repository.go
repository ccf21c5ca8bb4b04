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
	"github.com/nestegg-app/nestegg_backend/internal/utils/mapping"
)

const currencyColumns = `
	currency_code, name, symbol, precision, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxCurrencyRepository implements the currency repository ports using pgxpool.
type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(db *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveCurrency persists a currency, updating metadata on conflict.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurrency := mapping.ToModelCurrency(currency)
	modelCurrency.CurrencyCode = strings.ToUpper(modelCurrency.CurrencyCode)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO currencies (
			currency_code, name, symbol, precision, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (currency_code) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			precision = EXCLUDED.precision,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		modelCurrency.CurrencyCode, modelCurrency.Name, modelCurrency.Symbol,
		modelCurrency.Precision, modelCurrency.IsActive,
		modelCurrency.CreatedAt, modelCurrency.CreatedBy,
		modelCurrency.LastUpdatedAt, modelCurrency.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save currency", err)
	}
	return nil
}

// FindCurrencyByCode retrieves a specific currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE currency_code = $1;
	`

	var modelCurrency models.Currency
	err := r.Pool.QueryRow(ctx, query, strings.ToUpper(currencyCode)).Scan(
		&modelCurrency.CurrencyCode, &modelCurrency.Name, &modelCurrency.Symbol,
		&modelCurrency.Precision, &modelCurrency.IsActive,
		&modelCurrency.CreatedAt, &modelCurrency.CreatedBy,
		&modelCurrency.LastUpdatedAt, &modelCurrency.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("currency " + currencyCode + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find currency", err)
	}

	domainCurrency := mapping.ToDomainCurrency(modelCurrency)
	return &domainCurrency, nil
}

// ListCurrencies retrieves all stored currencies, sorted by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		ORDER BY currency_code ASC;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list currencies", err)
	}
	defer rows.Close()

	var modelCurrencies []models.Currency
	for rows.Next() {
		var modelCurrency models.Currency
		err := rows.Scan(
			&modelCurrency.CurrencyCode, &modelCurrency.Name, &modelCurrency.Symbol,
			&modelCurrency.Precision, &modelCurrency.IsActive,
			&modelCurrency.CreatedAt, &modelCurrency.CreatedBy,
			&modelCurrency.LastUpdatedAt, &modelCurrency.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency", err)
		}
		modelCurrencies = append(modelCurrencies, modelCurrency)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read currencies", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}
