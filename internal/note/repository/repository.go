package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
)

// Repository scopes every lookup and mutation by owner id, so a note owned by someone else
// is indistinguishable from one that does not exist.
type Repository interface {
	Create(ctx context.Context, note domain.Note) (domain.ID, error)
	FindOwned(ctx context.Context, id domain.ID, ownerID string) (domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]domain.Note, error)
	UpdateOwned(ctx context.Context, id domain.ID, ownerID string, title, content string, updatedAt time.Time) error
	DeleteOwned(ctx context.Context, id domain.ID, ownerID string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrInvalidID    = errors.New("invalid note id")
)

const table = "notes"

// New returns the repository matching the gateway's backend.
func New(gateway *db.Gateway, ids crypto.IDGenerator) Repository {
	if gateway.Backend() == db.BackendPostgres {
		return NewPgRepository(gateway, ids)
	}
	return NewMongoRepository(gateway)
}
