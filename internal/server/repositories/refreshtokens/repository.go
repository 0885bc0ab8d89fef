// Package refreshtokens declares the server-side repository contract for
// refresh-token records, the registry that makes every refresh token
// single-use.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores issued refresh tokens. A record is never physically
// removed except together with its account; once revoked it can never be
// redeemed again.
type Repository interface {
	// Create stores a new, unused and unrevoked record.
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)

	// FindActive returns the unrevoked record whose token matches exactly.
	// Revoked or unknown tokens yield common.ErrorNotFound.
	FindActive(ctx context.Context, token string) (*models.RefreshToken, error)

	// MarkUsed atomically flips an unrevoked record to used and revoked.
	// Only one caller can win; every other caller gets common.ErrorNotFound.
	MarkUsed(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke atomically revokes an unrevoked record without marking it used.
	Revoke(ctx context.Context, token string) (*models.RefreshToken, error)

	// RevokeByAccount revokes every unrevoked record of the account and
	// returns how many were revoked.
	RevokeByAccount(ctx context.Context, accountID string) (int64, error)
}
