package repomanager

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type memRefreshTokens struct {
	memRepos
}

func (r *memRefreshTokens) Create(_ context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	unlock := r.lock()
	defer unlock()

	if _, ok := r.m.state.accounts[token.AccountID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.m.state.tokens[token.Token]; ok {
		return nil, common.ErrorConflict
	}
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	token.Used = false
	token.Revoked = false
	token.CreatedAt = time.Now()

	stored := *token
	r.m.state.tokens[token.Token] = &stored
	return token, nil
}

func (r *memRefreshTokens) FindActive(_ context.Context, token string) (*models.RefreshToken, error) {
	unlock := r.lock()
	defer unlock()

	t, ok := r.m.state.tokens[token]
	if !ok || t.Revoked {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r *memRefreshTokens) MarkUsed(_ context.Context, token string) (*models.RefreshToken, error) {
	return r.revoke(token, true)
}

func (r *memRefreshTokens) Revoke(_ context.Context, token string) (*models.RefreshToken, error) {
	return r.revoke(token, false)
}

func (r *memRefreshTokens) RevokeByAccount(_ context.Context, accountID string) (int64, error) {
	unlock := r.lock()
	defer unlock()

	var n int64
	for _, t := range r.m.state.tokens {
		if t.AccountID == accountID && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

func (r *memRefreshTokens) revoke(token string, used bool) (*models.RefreshToken, error) {
	unlock := r.lock()
	defer unlock()

	t, ok := r.m.state.tokens[token]
	if !ok || t.Revoked {
		return nil, common.ErrorNotFound
	}
	t.Revoked = true
	if used {
		t.Used = true
	}
	c := *t
	return &c, nil
}
