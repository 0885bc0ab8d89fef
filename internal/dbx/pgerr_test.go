package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}

	constraint, ok := UniqueViolation(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, "accounts_email_key", constraint)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok, "foreign key violation is not a unique violation")

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)

	_, ok = UniqueViolation(nil)
	assert.False(t, ok)
}

func TestCheckViolation(t *testing.T) {
	constraint, ok := CheckViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514", ConstraintName: "accounts_identity_present"}))
	assert.True(t, ok)
	assert.Equal(t, "accounts_identity_present", constraint)

	_, ok = CheckViolation(&pgconn.PgError{Code: "23505"})
	assert.False(t, ok)
}
