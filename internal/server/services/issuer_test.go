package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssuePersistsRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := models.NewAccount()
	a.Email = "a@x.com"
	_, err := f.repos.Accounts().Create(ctx, a)
	require.NoError(t, err)

	issuer := NewTokenIssuer(f.signer, time.Hour, 7*24*time.Hour)
	pair, err := issuer.Issue(ctx, f.repos.RefreshTokens(), a)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	record, err := f.repos.RefreshTokens().FindActive(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, a.ID, record.AccountID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), record.ExpiresAt, time.Minute)

	access, err := f.signer.Verify(pair.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, a.ID, access.AccountID())
	assert.Equal(t, "a@x.com", access.Email)
	assert.Equal(t, []string{models.RoleUser}, access.Roles)
	assert.Equal(t, time.Hour, access.ExpiresAt.Sub(access.IssuedAt.Time))

	refresh, err := f.signer.Verify(pair.RefreshToken, auth.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, refresh.ExpiresAt.Sub(refresh.IssuedAt.Time))
}

func TestTokenIssuer_NoTokensWhenPersistFails(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")

	issuer := NewTokenIssuer(f.signer, time.Hour, time.Hour)
	pair, err := issuer.Issue(context.Background(), failingTokens{err: boom}, &models.Account{ID: "acc-1"})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, pair)
}
