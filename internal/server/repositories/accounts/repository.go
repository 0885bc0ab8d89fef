// Package accounts declares the credential store contract and its
// PostgreSQL implementation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MsgIdentityRequired is returned, as a validation error, for an account
// with no email, phone or provider identity.
const MsgIdentityRequired = "email, phone or provider id is required"

// Repository persists accounts. Lookups that find nothing return
// common.ErrorNotFound; writes that would break email or phone uniqueness
// return an error matching common.ErrorConflict; an account without any
// identity is rejected with common.ErrorValidation.
type Repository interface {
	// Create assigns an ID (when empty) and timestamps, and stores the account.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	GetByPhone(ctx context.Context, phone string) (*models.Account, error)

	// GetByProvider finds the account linked to externalID at provider.
	GetByProvider(ctx context.Context, provider, externalID string) (*models.Account, error)

	// Update overwrites every mutable field and bumps UpdatedAt.
	Update(ctx context.Context, account *models.Account) error

	// Delete removes the account; its refresh tokens go with it.
	Delete(ctx context.Context, id string) error
}
