package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// UserRepository is the credential store. Every verification re-reads it,
// so deactivating a user takes effect on their next request.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	SetActive(ctx context.Context, id domain.UserID, active bool) error
}

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, password_hash, is_active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(user.ID),
		user.Username,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, password_hash, is_active, created_at FROM users WHERE username = $1`,
		username,
	)
	return scanUser(row)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, password_hash, is_active, created_at FROM users WHERE id = $1`,
		string(id),
	)
	return scanUser(row)
}

func (r *PgUserRepository) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, password_hash, is_active, created_at FROM users ORDER BY created_at OFFSET $1 LIMIT $2`,
		skip,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) SetActive(ctx context.Context, id domain.UserID, active bool) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2`,
		active,
		string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
