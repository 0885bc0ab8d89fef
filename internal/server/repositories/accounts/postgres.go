package accounts

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

const (
	emailConstraint = "accounts_email_key"
	phoneConstraint = "accounts_phone_key"

	identityConstraint = "accounts_identity_present"
)

const selectColumns = `SELECT id, email, phone, name, avatar, password_hash, roles, provider_ids,
		 provider_tokens, avail_to_set_password, is_active, created_at, updated_at
		 FROM accounts`

// PostgresRepository implements Repository over dbx.DBTX, so it works with
// both *sql.DB and *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = models.NormalizeEmail(account.Email)
	if len(account.Roles) == 0 {
		account.Roles = models.Roles{models.RoleUser}
	}

	query :=
		`INSERT INTO accounts (id, email, phone, name, avatar, password_hash, roles, provider_ids,
		 provider_tokens, avail_to_set_password, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, nullString(account.Email), nullString(account.Phone), account.Name, account.Avatar,
		nullString(account.PasswordHash), account.Roles, account.ProviderIDs, account.ProviderTokens,
		account.AvailToSetPassword, account.IsActive,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, selectColumns+` WHERE lower(email) = $1`, models.NormalizeEmail(email))
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*models.Account, error) {
	return r.getOne(ctx, selectColumns+` WHERE phone = $1`, phone)
}

func (r *PostgresRepository) GetByProvider(ctx context.Context, provider, externalID string) (*models.Account, error) {
	return r.getOne(ctx, selectColumns+` WHERE provider_ids ->> $1 = $2`, provider, externalID)
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {
	account.Email = models.NormalizeEmail(account.Email)

	query :=
		`UPDATE accounts SET email = $2, phone = $3, name = $4, avatar = $5, password_hash = $6,
		 roles = $7, provider_ids = $8, provider_tokens = $9, avail_to_set_password = $10,
		 is_active = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, nullString(account.Email), nullString(account.Phone), account.Name, account.Avatar,
		nullString(account.PasswordHash), account.Roles, account.ProviderIDs, account.ProviderTokens,
		account.AvailToSetPassword, account.IsActive,
	).Scan(&account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return mapWriteError(err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var (
		a                          models.Account
		email, phone, passwordHash sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &email, &phone, &a.Name, &a.Avatar, &passwordHash, &a.Roles, &a.ProviderIDs,
		&a.ProviderTokens, &a.AvailToSetPassword, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.Email = email.String
	a.Phone = phone.String
	a.PasswordHash = passwordHash.String
	return &a, nil
}

func mapWriteError(err error) error {
	if constraint, ok := dbx.CheckViolation(err); ok && constraint == identityConstraint {
		return common.NewError(common.ErrorValidation, MsgIdentityRequired)
	}
	constraint, ok := dbx.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("db error: %w", err)
	}
	switch constraint {
	case emailConstraint:
		return common.NewError(common.ErrorConflict, "email already registered")
	case phoneConstraint:
		return common.NewError(common.ErrorConflict, "phone already registered")
	default:
		return common.NewError(common.ErrorConflict, "account already exists")
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
