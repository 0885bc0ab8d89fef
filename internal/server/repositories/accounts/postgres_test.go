package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{
	"id", "email", "phone", "name", "avatar", "password_hash", "roles", "provider_ids",
	"provider_tokens", "avail_to_set_password", "is_active", "created_at", "updated_at",
}

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,.*VALUES\s*\(\$1,.*\$11\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	updateQuery = `(?s)^UPDATE\s+accounts\s+SET\s+email\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*RETURNING\s+updated_at\s*$`
	deleteQuery = `^DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func sampleRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(accountColumns).AddRow(
		"acc-1", "a@x.com", nil, "Alice", "", "$2a$10$hash", []byte(`["user"]`), []byte(`{"google":"g-1"}`),
		[]byte(`{}`), false, true, now, now,
	)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "a@x.com", nil, "Alice", "", "$2a$10$hash", `["user"]`, `{}`, `{}`, false, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := models.NewAccount()
	a.Email = " A@X.com"
	a.Name = "Alice"
	a.PasswordHash = "$2a$10$hash"

	got, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		message    string
	}{
		{emailConstraint, "email already registered"},
		{phoneConstraint, "phone already registered"},
		{"accounts_pkey", "account already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(insertQuery).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			a := models.NewAccount()
			a.Email = "a@x.com"
			_, err := repo.Create(context.Background(), a)
			require.ErrorIs(t, err, common.ErrorConflict)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCreate_IdentityCheckViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: identityConstraint})

	_, err := repo.Create(context.Background(), models.NewAccount())
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, MsgIdentityRequired, err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), models.NewAccount())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.NotErrorIs(t, err, common.ErrorConflict)
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+accounts\s+WHERE\s+lower\(email\)\s*=\s*\$1$`).
		WithArgs("a@x.com").
		WillReturnRows(sampleRow(now))

	got, err := repo.GetByEmail(context.Background(), "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Empty(t, got.Phone)
	assert.Equal(t, models.Roles{models.RoleUser}, got.Roles)
	assert.Equal(t, "g-1", got.ProviderIDs["google"])
	assert.True(t, got.IsActive)
	assert.True(t, got.HasPassword())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*WHERE\s+id\s*=\s*\$1$`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByPhone_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*WHERE\s+phone\s*=\s*\$1$`).
		WithArgs("+1555").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByPhone(context.Background(), "+1555")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByProvider_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*WHERE\s+provider_ids\s*->>\s*\$1\s*=\s*\$2$`).
		WithArgs("google", "g-1").
		WillReturnRows(sampleRow(time.Now()))

	got, err := repo.GetByProvider(context.Background(), "google", "g-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.ID)
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	later := time.Now().Add(time.Minute)
	mock.ExpectQuery(updateQuery).
		WithArgs("acc-1", "a@x.com", "+1555", "Alice", "", nil, `["user","admin"]`, `{"google":"g-1"}`, `{}`, true, false).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))

	a := &models.Account{
		ID:                 "acc-1",
		Email:              "A@x.com",
		Phone:              "+1555",
		Name:               "Alice",
		Roles:              models.Roles{models.RoleUser, models.RoleAdmin},
		ProviderIDs:        models.ProviderIDs{"google": "g-1"},
		AvailToSetPassword: true,
	}
	require.NoError(t, repo.Update(context.Background(), a))
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, "a@x.com", a.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &models.Account{ID: "missing"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_Conflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: phoneConstraint})

	err := repo.Update(context.Background(), &models.Account{ID: "acc-1", Phone: "+1555"})
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).WithArgs("acc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "acc-1"))

	mock.ExpectExec(deleteQuery).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), common.ErrorNotFound)

	mock.ExpectExec(deleteQuery).WithArgs("acc-2").WillReturnError(errors.New("db err"))
	err := repo.Delete(context.Background(), "acc-2")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
