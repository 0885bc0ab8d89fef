package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type fixture struct {
	repos  *repomanager.InMemoryRepositoryManager
	signer *auth.Signer
	events *recordingEvents
	svc    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	signer, err := auth.NewSigner([]byte("test-secret"))
	require.NoError(t, err)

	repos := repomanager.NewInMemoryRepositoryManager()
	events := &recordingEvents{}
	issuer := NewTokenIssuer(signer, time.Hour, 7*24*time.Hour)
	svc := NewAuthService(repos, password.NewBcrypt(bcrypt.MinCost), signer, issuer, events, logging.Nop())

	return &fixture{repos: repos, signer: signer, events: events, svc: svc}
}

func (f *fixture) signup(t *testing.T, email, pw string) *AuthResult {
	t.Helper()
	res, err := f.svc.Signup(context.Background(), SignupInput{Email: email, Password: pw})
	require.NoError(t, err)
	return res
}

type recordingEvents struct {
	mu      sync.Mutex
	created []string
}

func (r *recordingEvents) AccountCreated(_ context.Context, a *models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, a.ID)
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// failingTokens rejects every Create and delegates everything else.
type failingTokens struct {
	refreshtokens.Repository
	err error
}

func (f failingTokens) Create(context.Context, *models.RefreshToken) (*models.RefreshToken, error) {
	return nil, f.err
}

// brokenTokensManager serves a refresh-token repository whose Create fails
// outside of transactions.
type brokenTokensManager struct {
	*repomanager.InMemoryRepositoryManager
	err error
}

func (m brokenTokensManager) RefreshTokens() refreshtokens.Repository {
	return failingTokens{Repository: m.InMemoryRepositoryManager.RefreshTokens(), err: m.err}
}

func (m brokenTokensManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repomanager.Repositories) error) error {
	return m.InMemoryRepositoryManager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		return fn(ctx, brokenRepos{Repositories: repos, err: m.err})
	})
}

type brokenRepos struct {
	repomanager.Repositories
	err error
}

func (r brokenRepos) RefreshTokens() refreshtokens.Repository {
	return failingTokens{Repository: r.Repositories.RefreshTokens(), err: r.err}
}
