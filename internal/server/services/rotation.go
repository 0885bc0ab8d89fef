package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// RefreshRegistry redeems and revokes refresh tokens. Callers only ever see
// common.ErrInvalidToken; the specific reason is logged.
type RefreshRegistry struct {
	signer *auth.Signer
	logger logging.Logger
}

func NewRefreshRegistry(signer *auth.Signer, logger logging.Logger) *RefreshRegistry {
	return &RefreshRegistry{signer: signer, logger: logger}
}

// Rotate consumes token and returns the account it belongs to. A token can
// be consumed once; concurrent callers race on a conditional update and
// exactly one wins.
func (r *RefreshRegistry) Rotate(ctx context.Context, repos repomanager.Repositories, token string) (*models.Account, error) {
	claims, err := r.signer.Verify(token, auth.TypeRefresh)
	if err != nil {
		return nil, r.reject(ctx, "refresh token verification failed", err)
	}

	record, err := repos.RefreshTokens().FindActive(ctx, token)
	if err != nil {
		return nil, r.reject(ctx, "refresh token not active", err, "account_id", claims.AccountID())
	}
	if record.AccountID != claims.AccountID() {
		return nil, r.reject(ctx, "refresh token subject mismatch", nil, "account_id", claims.AccountID())
	}

	account, err := repos.Accounts().GetByID(ctx, claims.AccountID())
	if err != nil {
		return nil, r.reject(ctx, "refresh token account lookup failed", err, "account_id", claims.AccountID())
	}
	if !account.IsActive {
		return nil, r.reject(ctx, "refresh token account inactive", nil, "account_id", account.ID)
	}

	if _, err := repos.RefreshTokens().MarkUsed(ctx, token); err != nil {
		return nil, r.reject(ctx, "refresh token already consumed", err, "account_id", account.ID)
	}

	return account, nil
}

// Revoke invalidates token without consuming it.
func (r *RefreshRegistry) Revoke(ctx context.Context, repos repomanager.Repositories, token string) (*models.RefreshToken, error) {
	claims, err := r.signer.Verify(token, auth.TypeRefresh)
	if err != nil {
		return nil, r.reject(ctx, "logout token verification failed", err)
	}

	record, err := repos.RefreshTokens().Revoke(ctx, token)
	if err != nil {
		return nil, r.reject(ctx, "logout token not active", err, "account_id", claims.AccountID())
	}
	return record, nil
}

func (r *RefreshRegistry) reject(ctx context.Context, reason string, cause error, args ...any) error {
	if cause != nil {
		args = append(args, "error", cause.Error())
	}
	r.logger.Warn(ctx, reason, args...)
	return common.ErrInvalidToken
}
