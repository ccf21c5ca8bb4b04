package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/models"
	"github.com/nestegg-app/nestegg_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const exchangeRateColumns = `
	exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange rate repository ports using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveExchangeRate upserts one rate row keyed by (from, to, rate_date). The
// unique constraint makes concurrent writers converge on a single row.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	fromCurrency := strings.ToUpper(rate.FromCurrencyCode)
	toCurrency := strings.ToUpper(rate.ToCurrencyCode)

	if fromCurrency == toCurrency {
		return apperrors.NewValidationError("from and to currencies cannot be the same")
	}
	if !rate.Rate.IsPositive() {
		return apperrors.NewValidationError("exchange rate must be positive")
	}

	modelRate := mapping.ToModelExchangeRate(rate)
	modelRate.FromCurrencyCode = fromCurrency
	modelRate.ToCurrencyCode = toCurrency
	modelRate.RateDate = domain.DateOnly(modelRate.RateDate)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (from_currency_code, to_currency_code, rate_date) DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		modelRate.ExchangeRateID, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode,
		modelRate.Rate, modelRate.RateDate, modelRate.Source,
		modelRate.CreatedAt, modelRate.CreatedBy, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// SaveExchangeRates bulk-upserts a daily series through a pgx batch inside one
// transaction, returning the number of rows written.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rate := range rates {
		modelRate := mapping.ToModelExchangeRate(rate)
		modelRate.FromCurrencyCode = strings.ToUpper(modelRate.FromCurrencyCode)
		modelRate.ToCurrencyCode = strings.ToUpper(modelRate.ToCurrencyCode)
		modelRate.RateDate = domain.DateOnly(modelRate.RateDate)

		batch.Queue(`
			INSERT INTO exchange_rates (
				exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, source,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (from_currency_code, to_currency_code, rate_date) DO UPDATE SET
				rate = EXCLUDED.rate,
				source = EXCLUDED.source,
				last_updated_at = EXCLUDED.last_updated_at,
				last_updated_by = EXCLUDED.last_updated_by`,
			modelRate.ExchangeRateID, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode,
			modelRate.Rate, modelRate.RateDate, modelRate.Source,
			modelRate.CreatedAt, modelRate.CreatedBy, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
		)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}

	results := tx.SendBatch(ctx, batch)
	written := 0
	for range rates {
		if _, execErr := results.Exec(); execErr != nil {
			err = execErr
			break
		}
		written++
	}
	if closeErr := results.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		_ = r.Rollback(ctx, tx)
		return 0, apperrors.NewAppError(500, "failed to save exchange rate series", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return written, nil
}

// FindExchangeRate retrieves the most recent exchange rate between two currencies.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	fromCurrency := strings.ToUpper(fromCurrencyCode)
	toCurrency := strings.ToUpper(toCurrencyCode)

	// Same-currency conversion is the identity rate.
	if fromCurrency == toCurrency {
		return &domain.ExchangeRate{
			FromCurrencyCode: fromCurrency,
			ToCurrencyCode:   toCurrency,
			Rate:             decimal.NewFromInt(1),
			RateDate:         domain.DateOnly(time.Now()),
		}, nil
	}

	directRate, err := r.findLatestRate(ctx, fromCurrency, toCurrency)
	if err == nil {
		return directRate, nil
	}

	// Pairs are stored in one direction only; invert the reverse row.
	if errors.Is(err, apperrors.ErrNotFound) {
		inverseRate, inverseErr := r.findLatestRate(ctx, toCurrency, fromCurrency)
		if inverseErr == nil {
			inverseRate.FromCurrencyCode = fromCurrency
			inverseRate.ToCurrencyCode = toCurrency
			if !inverseRate.Rate.IsZero() {
				inverseRate.Rate = decimal.NewFromInt(1).Div(inverseRate.Rate)
			}
			return inverseRate, nil
		}
	}

	return nil, apperrors.NewNotFoundError("no exchange rate found for currency pair " + fromCurrency + " to " + toCurrency)
}

// findLatestRate retrieves the newest stored row for one direction of a pair.
func (r *PgxExchangeRateRepository) findLatestRate(ctx context.Context, fromCurrency, toCurrency string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY rate_date DESC
		LIMIT 1;
	`

	modelRate, err := r.scanRateRow(r.Pool.QueryRow(ctx, query, fromCurrency, toCurrency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(*modelRate)
	return &domainRate, nil
}

// HasRateForDate reports whether any rate row exists for the given calendar day.
func (r *PgxExchangeRateRepository) HasRateForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exchange_rates WHERE rate_date = $1)`,
		domain.DateOnly(date),
	).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check rate coverage for date", err)
	}
	return exists, nil
}

// CountRatesForPair counts stored rows for a pair, in either direction.
func (r *PgxExchangeRateRepository) CountRatesForPair(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (int, error) {
	fromCurrency := strings.ToUpper(fromCurrencyCode)
	toCurrency := strings.ToUpper(toCurrencyCode)

	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM exchange_rates
		WHERE (from_currency_code = $1 AND to_currency_code = $2)
		   OR (from_currency_code = $2 AND to_currency_code = $1)`,
		fromCurrency, toCurrency,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count rates for pair", err)
	}
	return count, nil
}

// ListRatesForCurrencies retrieves every rate row whose two codes are both in
// codes, dated on or before until, ordered by rate_date ascending.
func (r *PgxExchangeRateRepository) ListRatesForCurrencies(ctx context.Context, codes []string, until time.Time) ([]domain.ExchangeRate, error) {
	if len(codes) < 2 {
		return nil, nil
	}

	upper := make([]string, len(codes))
	for i, code := range codes {
		upper[i] = strings.ToUpper(code)
	}

	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = ANY($1)
		  AND to_currency_code = ANY($1)
		  AND rate_date <= $2
		ORDER BY rate_date ASC;
	`

	rows, err := r.Pool.Query(ctx, query, upper, domain.DateOnly(until))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rates for currencies", err)
	}
	defer rows.Close()

	return r.collectRateRows(rows)
}

// ListRatesForPair retrieves the stored daily series for one direction of a
// pair, ordered by rate_date ascending.
func (r *PgxExchangeRateRepository) ListRatesForPair(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY rate_date ASC;
	`

	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rates for pair", err)
	}
	defer rows.Close()

	return r.collectRateRows(rows)
}

func (r *PgxExchangeRateRepository) scanRateRow(row pgx.Row) (*models.ExchangeRate, error) {
	var modelRate models.ExchangeRate
	err := row.Scan(
		&modelRate.ExchangeRateID, &modelRate.FromCurrencyCode, &modelRate.ToCurrencyCode,
		&modelRate.Rate, &modelRate.RateDate, &modelRate.Source,
		&modelRate.CreatedAt, &modelRate.CreatedBy, &modelRate.LastUpdatedAt, &modelRate.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &modelRate, nil
}

func (r *PgxExchangeRateRepository) collectRateRows(rows pgx.Rows) ([]domain.ExchangeRate, error) {
	var modelRates []models.ExchangeRate
	for rows.Next() {
		modelRate, err := r.scanRateRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		modelRates = append(modelRates, *modelRate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read exchange rates", err)
	}
	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}
