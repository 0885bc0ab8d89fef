package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api/authv1"
)

// Tokens is the token pair a client currently holds.
type Tokens struct {
	Access    string
	Refresh   string
	ExpiresAt time.Time
}

type Client interface {
	Close() error
	Signup(ctx context.Context, req *authv1.SignupRequest) (*authv1.AuthResponse, error)
	Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.AuthResponse, error)
	Refresh(ctx context.Context) (*authv1.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*authv1.Account, error)
	SetTokens(t Tokens)
	Tokens() Tokens
}
