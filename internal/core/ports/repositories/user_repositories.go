package repositories

import (
	"context"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
)

// UserReader defines the read-only user queries this subsystem consumes.
type UserReader interface {
	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetReportingCurrency returns the user's reporting currency preference,
	// or defaultCurrency when unset.
	GetReportingCurrency(ctx context.Context, userID string, defaultCurrency string) (string, error)
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
}
