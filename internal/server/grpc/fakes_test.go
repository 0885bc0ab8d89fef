package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/require"
)

// fakeAuth returns canned results. Authenticate verifies with signer when set.
type fakeAuth struct {
	signer *auth.Signer

	result *services.AuthResult
	err    error

	account *models.Account
	revoked int64

	gotSignup  services.SignupInput
	gotLogin   services.LoginInput
	gotProfile *models.SocialProfile
	gotID      string
}

func (f *fakeAuth) Signup(_ context.Context, in services.SignupInput) (*services.AuthResult, error) {
	f.gotSignup = in
	return f.result, f.err
}

func (f *fakeAuth) Login(_ context.Context, in services.LoginInput) (*services.AuthResult, error) {
	f.gotLogin = in
	return f.result, f.err
}

func (f *fakeAuth) Refresh(context.Context, string) (*services.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) SocialLogin(_ context.Context, p *models.SocialProfile) (*services.AuthResult, error) {
	f.gotProfile = p
	return f.result, f.err
}

func (f *fakeAuth) Logout(context.Context, string) error { return f.err }

func (f *fakeAuth) LogoutAll(_ context.Context, id string) (int64, error) {
	f.gotID = id
	return f.revoked, f.err
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	return f.signer.Verify(token, auth.TypeAccess)
}

func (f *fakeAuth) GetAccount(_ context.Context, id string) (*models.Account, error) {
	f.gotID = id
	return f.account, f.err
}

func (f *fakeAuth) SetPassword(_ context.Context, id, _ string) error {
	f.gotID = id
	return f.err
}

func (f *fakeAuth) ToggleStatus(_ context.Context, id string) (*models.Account, error) {
	f.gotID = id
	return f.account, f.err
}

func (f *fakeAuth) DeleteAccount(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

type fakeGoogle struct {
	profile *models.SocialProfile
	err     error
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (g *fakeGoogle) Exchange(context.Context, string) (*models.SocialProfile, error) {
	return g.profile, g.err
}

func newSigner(t *testing.T) *auth.Signer {
	t.Helper()
	s, err := auth.NewSigner([]byte("grpc-test-secret"))
	require.NoError(t, err)
	return s
}

func accessToken(t *testing.T, s *auth.Signer, id string, roles ...string) string {
	t.Helper()
	a := models.NewAccount()
	a.ID = id
	a.Email = id + "@example.com"
	if len(roles) > 0 {
		a.Roles = roles
	}
	tok, err := s.Sign(a, auth.TypeAccess, time.Hour)
	require.NoError(t, err)
	return tok
}

func sampleAccount() *models.Account {
	a := models.NewAccount()
	a.ID = "acc-1"
	a.Email = "a@example.com"
	a.PasswordHash = "$2a$10$secret"
	return a
}

func sampleResult() *services.AuthResult {
	return &services.AuthResult{
		TokenPair: services.TokenPair{AccessToken: "A", RefreshToken: "R", ExpiresIn: 3600},
		Account:   sampleAccount(),
	}
}
