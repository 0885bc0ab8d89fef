package repomanager

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

type memAccounts struct {
	memRepos
}

func (r *memAccounts) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	unlock := r.lock()
	defer unlock()

	account.Email = models.NormalizeEmail(account.Email)
	if !account.HasIdentity() {
		return nil, common.NewError(common.ErrorValidation, accounts.MsgIdentityRequired)
	}
	if err := r.checkUnique(account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, ok := r.m.state.accounts[account.ID]; ok {
		return nil, common.NewError(common.ErrorConflict, "account already exists")
	}
	if len(account.Roles) == 0 {
		account.Roles = models.Roles{models.RoleUser}
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.m.state.accounts[account.ID] = account.Clone()
	return account, nil
}

func (r *memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	unlock := r.lock()
	defer unlock()

	a, ok := r.m.state.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	return r.find(func(a *models.Account) bool { return email != "" && a.Email == email })
}

func (r *memAccounts) GetByPhone(_ context.Context, phone string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return phone != "" && a.Phone == phone })
}

func (r *memAccounts) GetByProvider(_ context.Context, provider, externalID string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool {
		id, ok := a.ProviderIDs[provider]
		return ok && id == externalID
	})
}

func (r *memAccounts) Update(_ context.Context, account *models.Account) error {
	unlock := r.lock()
	defer unlock()

	stored, ok := r.m.state.accounts[account.ID]
	if !ok {
		return common.ErrorNotFound
	}
	account.Email = models.NormalizeEmail(account.Email)
	if !account.HasIdentity() {
		return common.NewError(common.ErrorValidation, accounts.MsgIdentityRequired)
	}
	if err := r.checkUnique(account); err != nil {
		return err
	}
	account.CreatedAt = stored.CreatedAt
	account.UpdatedAt = time.Now()
	r.m.state.accounts[account.ID] = account.Clone()
	return nil
}

// Delete removes the account and cascades to its refresh tokens.
func (r *memAccounts) Delete(_ context.Context, id string) error {
	unlock := r.lock()
	defer unlock()

	if _, ok := r.m.state.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.state.accounts, id)
	for k, t := range r.m.state.tokens {
		if t.AccountID == id {
			delete(r.m.state.tokens, k)
		}
	}
	return nil
}

func (r *memAccounts) find(match func(*models.Account) bool) (*models.Account, error) {
	unlock := r.lock()
	defer unlock()

	for _, a := range r.m.state.accounts {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

// checkUnique must be called with the lock held.
func (r *memAccounts) checkUnique(account *models.Account) error {
	for id, a := range r.m.state.accounts {
		if id == account.ID {
			continue
		}
		if account.Email != "" && a.Email == account.Email {
			return common.NewError(common.ErrorConflict, "email already registered")
		}
		if account.Phone != "" && a.Phone == account.Phone {
			return common.NewError(common.ErrorConflict, "phone already registered")
		}
	}
	return nil
}
