// Package services contains application services for the authctl client.
// This file defines the session service: signup, login, refresh, logout and
// whoami, with the current token pair cached in the local session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/api/authv1"
	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/session"
)

// AuthService defines the session operations of the CLI.
//
// Contract:
//   - Signup / Login: authenticate against the server and cache the session.
//   - Refresh: rotate the cached refresh token.
//   - Logout: revoke the cached refresh token and forget the session.
//   - WhoAmI: fetch the account of the cached session, refreshing once if the
//     access token is rejected.
//   - Close: release underlying client resources.
//
// An identity containing "@" is an email, anything else is a phone number.
type AuthService interface {
	Signup(ctx context.Context, identity, name string, password []byte) (*models.Session, error)
	Login(ctx context.Context, identity string, password []byte) (*models.Session, error)
	Refresh(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*authv1.Account, error)
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions session.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, sessions session.Repository) AuthService {
	return &authService{client: c, sessions: sessions}
}

func splitIdentity(identity string) (email, phone string) {
	identity = strings.TrimSpace(identity)
	if strings.Contains(identity, "@") {
		return identity, ""
	}
	return "", identity
}

func (a *authService) Signup(ctx context.Context, identity, name string, password []byte) (*models.Session, error) {
	email, phone := splitIdentity(identity)
	resp, err := a.client.Signup(ctx, &authv1.SignupRequest{Email: email, Phone: phone, Name: name, Password: string(password)})
	if err != nil {
		return nil, err
	}
	return a.save(ctx, resp.Account)
}

func (a *authService) Login(ctx context.Context, identity string, password []byte) (*models.Session, error) {
	email, phone := splitIdentity(identity)
	resp, err := a.client.Login(ctx, &authv1.LoginRequest{Email: email, Phone: phone, Password: string(password)})
	if err != nil {
		return nil, err
	}
	return a.save(ctx, resp.Account)
}

func (a *authService) Refresh(ctx context.Context) (*models.Session, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Refresh(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			// The cached token is dead; keeping it would only fail again.
			_ = a.sessions.Clear(ctx)
		}
		return nil, err
	}

	if resp.Account == nil {
		resp.Account = &authv1.Account{ID: s.AccountID, Email: s.Email, Phone: s.Phone}
	}
	return a.save(ctx, resp.Account)
}

// Logout keeps the session when the server cannot be reached so the user can
// retry; any other outcome forgets it.
func (a *authService) Logout(ctx context.Context) error {
	if _, err := a.load(ctx); err != nil {
		return err
	}

	err := a.client.Logout(ctx)
	if errors.Is(err, client.ErrUnavailable) {
		return err
	}

	if cerr := a.sessions.Clear(ctx); cerr != nil {
		return cerr
	}
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	return nil
}

func (a *authService) WhoAmI(ctx context.Context) (*authv1.Account, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	acc, err := a.client.Me(ctx)
	if err != nil {
		return nil, err
	}

	if a.client.Tokens().Refresh != s.RefreshToken {
		if _, err := a.save(ctx, acc); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// load restores the cached tokens into the client.
func (a *authService) load(ctx context.Context) (*models.Session, error) {
	s, err := a.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, client.ErrNotLoggedIn
	}
	a.client.SetTokens(client.Tokens{Access: s.AccessToken, Refresh: s.RefreshToken, ExpiresAt: s.AccessExpiresAt})
	return s, nil
}

// save persists the client's current tokens for account.
func (a *authService) save(ctx context.Context, account *authv1.Account) (*models.Session, error) {
	t := a.client.Tokens()
	s := &models.Session{
		AccessToken:     t.Access,
		RefreshToken:    t.Refresh,
		AccessExpiresAt: t.ExpiresAt,
	}
	if account != nil {
		s.AccountID = account.ID
		s.Email = account.Email
		s.Phone = account.Phone
	}
	if err := a.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}
