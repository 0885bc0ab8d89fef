package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
)

// Repositories is a set of repositories sharing one connection or
// transaction.
type Repositories interface {
	Accounts() accounts.Repository
	RefreshTokens() refreshtokens.Repository
}

// RepositoryManager vends repositories bound to the backing store and runs
// units of work atomically.
type RepositoryManager interface {
	Repositories

	RunMigrations(ctx context.Context) error

	// WithTx runs fn against repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Inside fn only the repositories passed in may be used.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	Close() error
}
