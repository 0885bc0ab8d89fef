package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

const returningColumns = `id, account_id, token, used, revoked, expires_at, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record. The ID is generated when empty.
func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}

	query := `
		INSERT INTO refresh_tokens (id, token, account_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, token.ID, token.Token, token.AccountID, token.ExpiresAt).
		Scan(&token.CreatedAt); err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	token.Used = false
	token.Revoked = false
	return token, nil
}

// FindActive returns the unrevoked record for token.
func (r *PostgresRepository) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT ` + returningColumns + `
		FROM refresh_tokens
		WHERE token = $1 AND revoked = false
	`
	return r.scanOne(ctx, query, token)
}

// MarkUsed consumes the record. The WHERE clause makes the transition
// happen at most once.
func (r *PostgresRepository) MarkUsed(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens SET used = true, revoked = true
		WHERE token = $1 AND revoked = false
		RETURNING ` + returningColumns
	return r.scanOne(ctx, query, token)
}

// Revoke revokes the record without consuming it.
func (r *PostgresRepository) Revoke(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens SET revoked = true
		WHERE token = $1 AND revoked = false
		RETURNING ` + returningColumns
	return r.scanOne(ctx, query, token)
}

// RevokeByAccount revokes all live records of accountID.
func (r *PostgresRepository) RevokeByAccount(ctx context.Context, accountID string) (int64, error) {
	query := `
		UPDATE refresh_tokens SET revoked = true
		WHERE account_id = $1 AND revoked = false
	`
	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rt.ID, &rt.AccountID, &rt.Token, &rt.Used, &rt.Revoked, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rt, nil
}
