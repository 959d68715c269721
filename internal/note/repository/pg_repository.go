package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v4"

	"github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
)

const noteColumns = `id::text, user_id::text, title, content, created_at, updated_at, shared_by, is_shared`

type PgRepository struct {
	gateway *db.Gateway
	ids     crypto.IDGenerator
}

func NewPgRepository(gateway *db.Gateway, ids crypto.IDGenerator) *PgRepository {
	return &PgRepository{gateway: gateway, ids: ids}
}

func (r *PgRepository) Create(ctx context.Context, note domain.Note) (domain.ID, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return "", err
	}

	owner, err := uuid.Parse(note.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid owner id %q: %w", note.UserID, err)
	}

	id, err := r.ids.NewID()
	if err != nil {
		return "", err
	}

	var sharedBy *string
	if note.SharedBy != "" {
		sharedBy = &note.SharedBy
	}
	var isShared *bool
	if note.IsShared {
		isShared = &note.IsShared
	}

	start := time.Now()
	_, err = pool.Exec(
		ctx,
		`INSERT INTO notes (id, user_id, title, content, created_at, shared_by, is_shared)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id,
		owner.String(),
		note.Title,
		note.Content,
		note.CreatedAt,
		sharedBy,
		isShared,
	)
	if err := db.ObserveQuery("create note", table, start, err); err != nil {
		return "", err
	}
	return domain.ID(id), nil
}

func (r *PgRepository) FindOwned(ctx context.Context, id domain.ID, ownerID string) (domain.Note, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return domain.Note{}, err
	}

	noteID, err := parseNoteID(id)
	if err != nil {
		return domain.Note{}, err
	}
	owner, ok := parseOwner(ownerID)
	if !ok {
		return domain.Note{}, ErrNoteNotFound
	}

	start := time.Now()
	note, err := scanNote(pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, noteID, owner))
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNoteNotFound
	}
	if err := db.ObserveQuery("find note", table, start, err, ErrNoteNotFound); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]domain.Note, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return nil, err
	}

	notes := []domain.Note{}
	owner, ok := parseOwner(ownerID)
	if !ok {
		return notes, nil
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1`
	switch filter {
	case domain.FilterCreated:
		query += ` AND is_shared IS NOT TRUE`
	case domain.FilterShared:
		query += ` AND is_shared IS TRUE`
	}
	query += ` ORDER BY created_at DESC`

	start := time.Now()
	rows, err := pool.Query(ctx, query, owner)
	if err != nil {
		return nil, db.ObserveQuery("list notes", table, start, err)
	}
	defer rows.Close()

	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, db.ObserveQuery("list notes", table, start, err)
		}
		notes = append(notes, note)
	}
	if err := db.ObserveQuery("list notes", table, start, rows.Err()); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PgRepository) UpdateOwned(ctx context.Context, id domain.ID, ownerID string, title, content string, updatedAt time.Time) error {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return err
	}

	noteID, err := parseNoteID(id)
	if err != nil {
		return err
	}
	owner, ok := parseOwner(ownerID)
	if !ok {
		return ErrNoteNotFound
	}

	start := time.Now()
	tag, err := pool.Exec(ctx,
		`UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`,
		title, content, updatedAt, noteID, owner)
	if err == nil && tag.RowsAffected() == 0 {
		err = ErrNoteNotFound
	}
	return db.ObserveQuery("update note", table, start, err, ErrNoteNotFound)
}

func (r *PgRepository) DeleteOwned(ctx context.Context, id domain.ID, ownerID string) error {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return err
	}

	noteID, err := parseNoteID(id)
	if err != nil {
		return err
	}
	owner, ok := parseOwner(ownerID)
	if !ok {
		return ErrNoteNotFound
	}

	start := time.Now()
	tag, err := pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, owner)
	if err == nil && tag.RowsAffected() == 0 {
		err = ErrNoteNotFound
	}
	return db.ObserveQuery("delete note", table, start, err, ErrNoteNotFound)
}

func (r *PgRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	pool, err := r.gateway.Postgres()
	if err != nil {
		return 0, err
	}

	owner, ok := parseOwner(ownerID)
	if !ok {
		return 0, nil
	}

	start := time.Now()
	tag, err := pool.Exec(ctx, `DELETE FROM notes WHERE user_id = $1`, owner)
	if err := db.ObserveQuery("delete notes", table, start, err); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNote(row pgx.Row) (domain.Note, error) {
	var (
		note     domain.Note
		sharedBy *string
		isShared *bool
	)
	err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt, &sharedBy, &isShared)
	if err != nil {
		return domain.Note{}, err
	}
	if sharedBy != nil {
		note.SharedBy = *sharedBy
	}
	if isShared != nil {
		note.IsShared = *isShared
	}
	return note, nil
}

func parseNoteID(id domain.ID) (string, error) {
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func parseOwner(ownerID string) (string, bool) {
	parsed, err := uuid.Parse(ownerID)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
