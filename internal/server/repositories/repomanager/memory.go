package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
)

// InMemoryRepositoryManager keeps accounts and refresh tokens in process
// memory. A single mutex serializes every operation, which gives the same
// uniqueness and single-use guarantees as the database indexes.
type InMemoryRepositoryManager struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	accounts map[string]*models.Account      // by ID
	tokens   map[string]*models.RefreshToken // by token string
}

func (s memState) clone() memState {
	c := memState{
		accounts: make(map[string]*models.Account, len(s.accounts)),
		tokens:   make(map[string]*models.RefreshToken, len(s.tokens)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v.Clone()
	}
	for k, v := range s.tokens {
		t := *v
		c.tokens[k] = &t
	}
	return c
}

// memRepos is a view over the manager. When held is true the caller already
// owns the mutex (inside WithTx) and the repositories must not lock again.
type memRepos struct {
	m    *InMemoryRepositoryManager
	held bool
}

func (r memRepos) lock() func() {
	if r.held {
		return func() {}
	}
	r.m.mu.Lock()
	return r.m.mu.Unlock
}

func (r memRepos) Accounts() accounts.Repository {
	return &memAccounts{memRepos: r}
}

func (r memRepos) RefreshTokens() refreshtokens.Repository {
	return &memRefreshTokens{memRepos: r}
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		state: memState{
			accounts: map[string]*models.Account{},
			tokens:   map[string]*models.RefreshToken{},
		},
	}
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository {
	return memRepos{m: m}.Accounts()
}

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return memRepos{m: m}.RefreshTokens()
}

// RunMigrations is a no-op.
func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

// Close is a no-op.
func (m *InMemoryRepositoryManager) Close() error { return nil }

// WithTx holds the store lock for the duration of fn and restores the
// previous state if fn fails or panics.
func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	defer func() {
		if p := recover(); p != nil {
			m.state = snapshot
			panic(p)
		}
		if err != nil {
			m.state = snapshot
		}
	}()

	return fn(ctx, memRepos{m: m, held: true})
}
