package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/dbx"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
)

func newPostgresRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.Postgres), mock
}

var userColumns = []string{
	"id", "full_name", "email", "username", "password_hash", "gender", "hobbies",
	"country", "registered_at", "is_verified", "verification_token", "last_login",
}

func TestSQLRepository_Postgres_FindByUsernameOrEmail(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	reg := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^SELECT .* FROM users WHERE username_key = \$1 OR email_key = \$2$`).
		WithArgs("ada_l", "ada_l").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ada", "ada@example.com", "ada_l", "hash", "female", `["math"]`,
				"UK", reg, false, "tok", nil))

	got, err := repo.FindByUsernameOrEmail(context.Background(), "Ada_L")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, []string{"math"}, got.Hobbies)
	require.NotNil(t, got.VerificationToken)
	assert.Equal(t, "tok", *got.VerificationToken)
	assert.Nil(t, got.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_NotFound(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(`WHERE username_key = \$1$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLRepository_Postgres_DBError(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(`WHERE verification_token = \$1$`).
		WithArgs("tok").
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByVerificationToken(context.Background(), "tok")
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestSQLRepository_Postgres_BadHobbiesJSON(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(`WHERE username_key = \$1$`).
		WithArgs("ada_l").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ada", "ada@example.com", "ada_l", "hash", "female", `not-json`,
				"UK", time.Now(), false, nil, nil))

	_, err := repo.FindByUsername(context.Background(), "ada_l")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode hobbies")
}

func TestSQLRepository_Postgres_InsertCommits(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)
	u := newUser("id-1", "Ada_L", "Ada@Example.com")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM users WHERE username_key = \$1`).WithArgs("ada_l").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT 1 FROM users WHERE email_key = \$1`).WithArgs("ada@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`(?s)INSERT INTO users.*VALUES \(\$1, \$2, .*\$14\)`).
		WithArgs("id-1", u.FullName, "Ada@Example.com", "ada@example.com", "Ada_L", "ada_l", u.PasswordHash,
			"other", `["math","music"]`, "DE", u.RegisteredAt, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_InsertDuplicateUsernameRollsBack(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM users WHERE username_key = \$1`).
		WithArgs("ada_l").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), newUser("id-1", "ada_l", "ada@example.com"))
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_InsertUniqueViolationMapped(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`username_key = \$1`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`email_key = \$1`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key_key"})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), newUser("id-1", "ada_l", "ada@example.com"))
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_Update(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)
	verified := true

	mock.ExpectExec(`^UPDATE users SET is_verified = \$1, verification_token = NULL WHERE id = \$2$`).
		WithArgs(true, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "u-1", models.UserPatch{IsVerified: &verified, ClearVerificationToken: true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_UpdateNoRows(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)
	now := time.Now()

	mock.ExpectExec(`^UPDATE users SET last_login = \$1 WHERE id = \$2$`).
		WithArgs(sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "ghost", models.UserPatch{LastLogin: &now})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDuplicateFromError(t *testing.T) {
	assert.Nil(t, duplicateFromError(errors.New("other")))
	assert.ErrorIs(t, duplicateFromError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key_key"}), common.ErrDuplicateUsername)
	assert.ErrorIs(t, duplicateFromError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}), common.ErrDuplicateKey)
	assert.Nil(t, duplicateFromError(&pgconn.PgError{Code: "23502"}))
}

func TestSQLRepository_Postgres_ConsumeTokenLostRace(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	reg := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE verification_token = \$1$`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ada", "ada@example.com", "ada_l", "hash", "female", `["math"]`,
				"UK", reg, false, "tok", nil))
	mock.ExpectExec(`^UPDATE users SET is_verified = \$1, verification_token = NULL WHERE id = \$2 AND verification_token = \$3$`).
		WithArgs(true, "u-1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ConsumeVerificationToken(context.Background(), "tok")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Postgres_ConsumeToken(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	reg := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE verification_token = \$1$`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ada", "ada@example.com", "ada_l", "hash", "female", `["math"]`,
				"UK", reg, false, "tok", nil))
	mock.ExpectExec(`^UPDATE users SET is_verified`).
		WithArgs(true, "u-1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.ConsumeVerificationToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.VerificationToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
