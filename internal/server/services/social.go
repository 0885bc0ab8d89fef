package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// Reconciler maps a verified third-party profile onto a local account,
// linking it to an existing account with the same email or creating one.
type Reconciler struct{}

func NewReconciler() *Reconciler { return &Reconciler{} }

// Reconcile returns the local account for profile and whether it was
// created. A concurrent creation of the same identity surfaces as a
// conflict on Create and is retried once as lookup-then-link.
func (r *Reconciler) Reconcile(ctx context.Context, repo accounts.Repository, profile *models.SocialProfile) (*models.Account, bool, error) {
	if profile.Provider == "" || profile.ProviderID == "" {
		return nil, false, common.NewError(common.ErrorValidation, "provider and provider id are required")
	}

	account, err := r.lookup(ctx, repo, profile)
	switch {
	case err == nil:
		return r.link(ctx, repo, account, profile)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, false, err
	}

	account = models.NewAccount()
	account.Email = profile.Email
	account.Name = profile.Name
	account.Avatar = profile.Avatar
	account.AvailToSetPassword = true
	account.ProviderIDs[profile.Provider] = profile.ProviderID
	if tok := providerToken(profile); tok != nil {
		account.ProviderTokens[profile.Provider] = *tok
	}

	created, err := repo.Create(ctx, account)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, common.ErrorConflict) {
		return nil, false, fmt.Errorf("create social account: %w", err)
	}

	account, err = r.lookup(ctx, repo, profile)
	if err != nil {
		return nil, false, fmt.Errorf("lookup after conflict: %w", err)
	}
	return r.link(ctx, repo, account, profile)
}

// lookup matches by email first, then by the provider identity, so an account
// first seen without an email is found again once the provider reports one.
func (r *Reconciler) lookup(ctx context.Context, repo accounts.Repository, profile *models.SocialProfile) (*models.Account, error) {
	if profile.Email != "" {
		account, err := repo.GetByEmail(ctx, profile.Email)
		if !errors.Is(err, common.ErrorNotFound) {
			return account, err
		}
	}
	return repo.GetByProvider(ctx, profile.Provider, profile.ProviderID)
}

func (r *Reconciler) link(ctx context.Context, repo accounts.Repository, account *models.Account, profile *models.SocialProfile) (*models.Account, bool, error) {
	if account.ProviderIDs == nil {
		account.ProviderIDs = models.ProviderIDs{}
	}
	account.ProviderIDs[profile.Provider] = profile.ProviderID
	if account.Email == "" && profile.Email != "" {
		account.Email = profile.Email
	}
	if profile.Name != "" {
		account.Name = profile.Name
	}
	if profile.Avatar != "" {
		account.Avatar = profile.Avatar
	}
	if tok := providerToken(profile); tok != nil {
		if account.ProviderTokens == nil {
			account.ProviderTokens = models.ProviderTokens{}
		}
		account.ProviderTokens[profile.Provider] = *tok
	}
	if !account.HasPassword() {
		account.AvailToSetPassword = true
	}

	if err := repo.Update(ctx, account); err != nil {
		return nil, false, fmt.Errorf("link social account: %w", err)
	}
	return account, false, nil
}

func providerToken(profile *models.SocialProfile) *models.ProviderToken {
	if profile.AccessToken == "" && profile.RefreshToken == "" {
		return nil
	}
	return &models.ProviderToken{AccessToken: profile.AccessToken, RefreshToken: profile.RefreshToken}
}
