// README: User store backed by PostgreSQL.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetrent/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(u.ID), u.Name, u.Email, u.PasswordHash, string(u.Role), u.Active, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, active, created_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`, string(id)))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, active, created_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`, email))
}

func (s *Store) Deactivate(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET active = FALSE, deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scanOne(row pgx.Row) (*User, error) {
	var u User
	var deletedAt *time.Time
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &deletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.DeletedAt = deletedAt
	return &u, nil
}
