// Package session stores the single cached login of the CLI.
package session

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
)

type Repository interface {
	// Get returns the cached session, or (nil, nil) when logged out.
	Get(ctx context.Context) (*models.Session, error)
	Set(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
