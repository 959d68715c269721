package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/user/domain"
)

type PgRepository struct {
	gateway *db.Gateway
	ids     crypto.IDGenerator
}

func NewPgRepository(gateway *db.Gateway, ids crypto.IDGenerator) *PgRepository {
	return &PgRepository{gateway: gateway, ids: ids}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return "", err
	}

	id, err := r.ids.NewID()
	if err != nil {
		return "", err
	}

	start := time.Now()
	_, err = pool.Exec(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		err = ErrUserAlreadyExists
	}
	if err := db.ObserveQuery("create user", table, start, err, ErrUserAlreadyExists); err != nil {
		return "", err
	}
	return domain.ID(id), nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email",
		`SELECT id::text, username, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username",
		`SELECT id::text, username, email, password_hash, created_at FROM users WHERE username = $1`, username)
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, arg string) (domain.User, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return domain.User{}, err
	}

	start := time.Now()
	var user domain.User
	err = pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrUserNotFound
	}
	if err := db.ObserveQuery(operation, table, start, err, ErrUserNotFound); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = pool.Exec(ctx, `DELETE FROM users WHERE id::text = $1`, string(id))
	return db.ObserveQuery("delete user", table, start, err)
}
