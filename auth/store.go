// This file contains the credential store: the single owner of User records.
// The interface keeps the service testable against an in-memory fake; the
// Postgres implementation is the one wired up in production.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/aidoctor-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UserStore persists user identity records. All mutations run inside a
// scoped transaction that is committed only if the full operation succeeds;
// the underlying connection is released on every exit path.
type UserStore interface {
	// CreateUser inserts a new user record. It fails with a ConflictError
	// when the username already exists (arbitrated atomically by the
	// database's uniqueness constraint, so a concurrent duplicate
	// registration yields exactly one success) and with a ValidationError
	// when the username is empty.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// FindByUsername performs an exact-match lookup: no case folding, no
	// fallback. A missing user is not an error; it returns (nil, nil).
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// PostgresUserStore is the pgx-backed UserStore.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore on top of the given pool.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// CreateUser inserts the record inside a transaction. pgx.BeginFunc commits
// on a nil return and rolls back otherwise, so the unit of work can never
// leak a half-finished insert or an unreleased connection.
func (s *PostgresUserStore) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, apperror.NewValidationError("username must not be empty", nil)
	}

	user := &User{
		Username:       username,
		HashedPassword: passwordHash,
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO users (username, password)
		          VALUES ($1, $2)
		          RETURNING id, created_at`
		return tx.QueryRow(ctx, query, user.Username, user.HashedPassword).Scan(&user.ID, &user.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "username") {
			return nil, apperror.NewConflictError("username already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return user, nil
}

// FindByUsername looks up a user by exact username.
func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, password, created_at FROM users WHERE username = $1`
	err := s.pool.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}
	return &user, nil
}
