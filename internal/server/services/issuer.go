// Package services contains server-side business logic: token issuance,
// refresh-token rotation, social identity reconciliation and the
// AuthService that ties them together.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenIssuer mints token pairs and records every refresh token it hands out.
type TokenIssuer struct {
	signer     *auth.Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(signer *auth.Signer, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{signer: signer, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// Issue signs an access and a refresh token for account and persists the
// refresh token through repo. If persisting fails no token is returned.
func (i *TokenIssuer) Issue(ctx context.Context, repo refreshtokens.Repository, account *models.Account) (*TokenPair, error) {
	access, err := i.signer.Sign(account, auth.TypeAccess, i.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.signer.Sign(account, auth.TypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	record := &models.RefreshToken{
		AccountID: account.ID,
		Token:     refresh,
		ExpiresAt: i.now().Add(i.refreshTTL),
	}
	if _, err := repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(i.accessTTL / time.Second),
	}, nil
}
