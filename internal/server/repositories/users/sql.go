package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/dbx"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
)

const (
	sqliteConstraintUnique = 2067
	pgUniqueViolation      = "23505"
)

// SQLRepository stores users in the "users" table created by the server
// migrations. username_key and email_key hold the lowercased values and
// carry the UNIQUE constraints.
type SQLRepository struct {
	db      *sql.DB
	dialect dbx.Dialect
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const selectColumns = `SELECT id, full_name, email, username, password_hash, gender, hobbies,
	country, registered_at, is_verified, verification_token, last_login FROM users`

func (r *SQLRepository) q(query string) string {
	return dbx.Rebind(r.dialect, query)
}

func (r *SQLRepository) findOne(ctx context.Context, db dbx.DBTX, where string, args ...any) (*models.User, error) {
	row := db.QueryRowContext(ctx, r.q(selectColumns+" WHERE "+where), args...)

	var (
		u         models.User
		hobbies   string
		token     sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Username, &u.PasswordHash, &u.Gender,
		&hobbies, &u.Country, &u.RegisteredAt, &u.IsVerified, &token, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(hobbies), &u.Hobbies); err != nil {
		return nil, fmt.Errorf("decode hobbies of %s: %w", u.ID, err)
	}
	u.RegisteredAt = u.RegisteredAt.UTC()
	if token.Valid {
		t := token.String
		u.VerificationToken = &t
	}
	if lastLogin.Valid {
		l := lastLogin.Time.UTC()
		u.LastLogin = &l
	}
	return &u, nil
}

func (r *SQLRepository) FindByUsernameOrEmail(ctx context.Context, key string) (*models.User, error) {
	k := strings.ToLower(key)
	return r.findOne(ctx, r.db, "username_key = ? OR email_key = ?", k, k)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, r.db, "username_key = ?", strings.ToLower(username))
}

func (r *SQLRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, r.db, "verification_token = ?", token)
}

func (r *SQLRepository) exists(ctx context.Context, tx dbx.DBTX, column, value string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, r.q("SELECT 1 FROM users WHERE "+column+" = ?"), value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *SQLRepository) Insert(ctx context.Context, user *models.User) error {
	hobbies, err := json.Marshal(user.Hobbies)
	if err != nil {
		return fmt.Errorf("encode hobbies: %w", err)
	}

	usernameKey := strings.ToLower(user.Username)
	emailKey := strings.ToLower(user.Email)

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if taken, err := r.exists(ctx, tx, "username_key", usernameKey); err != nil {
			return err
		} else if taken {
			return common.ErrDuplicateUsername
		}
		if taken, err := r.exists(ctx, tx, "email_key", emailKey); err != nil {
			return err
		} else if taken {
			return common.ErrDuplicateEmail
		}

		_, err := tx.ExecContext(ctx, r.q(`INSERT INTO users
			(id, full_name, email, email_key, username, username_key, password_hash,
			 gender, hobbies, country, registered_at, is_verified, verification_token, last_login)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			user.ID, user.FullName, user.Email, emailKey, user.Username, usernameKey, user.PasswordHash,
			user.Gender, string(hobbies), user.Country, user.RegisteredAt.UTC(), user.IsVerified,
			nullString(user.VerificationToken), nullTime(user.LastLogin),
		)
		if err != nil {
			if dup := duplicateFromError(err); dup != nil {
				return dup
			}
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *SQLRepository) Update(ctx context.Context, id string, patch models.UserPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.LastLogin != nil {
		sets = append(sets, "last_login = ?")
		args = append(args, patch.LastLogin.UTC())
	}
	if patch.IsVerified != nil {
		sets = append(sets, "is_verified = ?")
		args = append(args, *patch.IsVerified)
	}
	switch {
	case patch.ClearVerificationToken:
		sets = append(sets, "verification_token = NULL")
	case patch.VerificationToken != nil:
		sets = append(sets, "verification_token = ?")
		args = append(args, *patch.VerificationToken)
	}

	if len(sets) == 0 {
		if _, err := r.findOne(ctx, r.db, "id = ?", id); err != nil {
			return err
		}
		return nil
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, r.q("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
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

// ConsumeVerificationToken updates the row only while it still holds token,
// so of two concurrent callers exactly one sees a changed row.
func (r *SQLRepository) ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}

	var user *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := r.findOne(ctx, tx, "verification_token = ?", token)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			r.q("UPDATE users SET is_verified = ?, verification_token = NULL WHERE id = ? AND verification_token = ?"),
			true, u.ID, token)
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

		verifiedPatch.Apply(u)
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// duplicateFromError maps a unique-constraint violation raised by the
// database to the matching duplicate sentinel, or returns nil.
func duplicateFromError(err error) error {
	var detail string

	var sqliteErr *sqlite.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintUnique:
		detail = sqliteErr.Error()
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		detail = pgErr.ConstraintName + " " + pgErr.Message
	default:
		return nil
	}

	switch {
	case strings.Contains(detail, "username_key"):
		return common.ErrDuplicateUsername
	case strings.Contains(detail, "email_key"):
		return common.ErrDuplicateEmail
	default:
		return common.ErrDuplicateKey
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
