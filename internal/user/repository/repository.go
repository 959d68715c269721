package repository

import (
	"context"
	"errors"

	"github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/user/domain"
)

type Repository interface {
	// Create stores user and returns the id assigned to it. A username or email that is
	// already taken yields ErrUserAlreadyExists.
	Create(ctx context.Context, user domain.User) (domain.ID, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	Delete(ctx context.Context, id domain.ID) error
}

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

const table = "users"

// New returns the repository matching the gateway's backend.
func New(gateway *db.Gateway, ids crypto.IDGenerator) Repository {
	if gateway.Backend() == db.BackendPostgres {
		return NewPgRepository(gateway, ids)
	}
	return NewMongoRepository(gateway)
}
