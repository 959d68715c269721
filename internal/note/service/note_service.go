package service

import (
	"context"
	"errors"

	"github.com/nickgeorgouses/note-app/internal/common/clock"
	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
	noterepo "github.com/nickgeorgouses/note-app/internal/note/repository"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
	userrepo "github.com/nickgeorgouses/note-app/internal/user/repository"
)

// UserLookup resolves share recipients.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
}

// Caller is the authenticated user a request acts for.
type Caller struct {
	UserID   string
	Username string
}

type NoteInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type ShareInput struct {
	Username string `json:"username" validate:"required"`
}

type NoteService struct {
	notes noterepo.Repository
	users UserLookup
	clock clock.Clock
	log   *logger.Logger
}

func NewNoteService(notes noterepo.Repository, users UserLookup, clock clock.Clock, log *logger.Logger) *NoteService {
	return &NoteService{
		notes: notes,
		users: users,
		clock: clock,
		log:   log,
	}
}

func (s *NoteService) List(ctx context.Context, caller Caller, filter domain.Filter) ([]domain.Note, error) {
	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"filter":  string(filter),
		"action":  "notes_list",
	}).Debug("listing notes")

	notes, err := s.notes.ListByOwner(ctx, caller.UserID, filter)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": caller.UserID,
			"action":  "notes_list_failed",
		}).Errorf("list notes failed: %v", err)
		recordOperation("list", "error")
		return nil, ErrListFailed.WithCause(err)
	}
	if notes == nil {
		notes = []domain.Note{}
	}

	recordOperation("list", "success")
	recordListed(len(notes))
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, caller Caller, input NoteInput) (domain.ID, error) {
	if err := validateInput(input, ErrTitleContentRequired); err != nil {
		recordOperation("create", "invalid")
		return "", err
	}

	id, err := s.notes.Create(ctx, domain.Note{
		Title:     input.Title,
		Content:   input.Content,
		UserID:    caller.UserID,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": caller.UserID,
			"action":  "note_create_failed",
		}).Errorf("create note failed: %v", err)
		recordOperation("create", "error")
		return "", ErrCreateFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"note_id": string(id),
		"action":  "note_create_success",
	}).Info("note created")
	recordOperation("create", "success")
	return id, nil
}

func (s *NoteService) Update(ctx context.Context, caller Caller, id domain.ID, input NoteInput) error {
	if err := validateInput(input, ErrTitleContentRequired); err != nil {
		recordOperation("update", "invalid")
		return err
	}

	err := s.notes.UpdateOwned(ctx, id, caller.UserID, input.Title, input.Content, s.clock.Now())
	if err != nil {
		recordOperation("update", resultOf(err))
		return s.mapLookupError(ctx, caller, id, "note_update", err, ErrNoteNotFound, ErrUpdateFailed)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"note_id": string(id),
		"action":  "note_update_success",
	}).Info("note updated")
	recordOperation("update", "success")
	return nil
}

// Share copies the caller's note into the recipient's collection. The original is left as is.
func (s *NoteService) Share(ctx context.Context, caller Caller, id domain.ID, input ShareInput) (domain.ID, error) {
	if err := validateInput(input, ErrUsernameRequired); err != nil {
		recordOperation("share", "invalid")
		return "", err
	}
	if input.Username == caller.Username {
		recordOperation("share", "invalid")
		return "", ErrShareWithSelf
	}

	recipient, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			recordOperation("share", "not_found")
			return "", ErrRecipientNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   caller.UserID,
			"recipient": input.Username,
			"action":    "note_share_failed",
		}).Errorf("share failed: recipient lookup: %v", err)
		recordOperation("share", "error")
		return "", ErrShareFailed.WithCause(err)
	}

	original, err := s.notes.FindOwned(ctx, id, caller.UserID)
	if err != nil {
		recordOperation("share", resultOf(err))
		return "", s.mapLookupError(ctx, caller, id, "note_share", err, ErrSharedNoteNotFound, ErrShareFailed)
	}

	sharedID, err := s.notes.Create(ctx, domain.Note{
		Title:     original.Title,
		Content:   original.Content,
		UserID:    string(recipient.ID),
		CreatedAt: s.clock.Now(),
		SharedBy:  caller.Username,
		IsShared:  true,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": caller.UserID,
			"note_id": string(id),
			"action":  "note_share_failed",
		}).Errorf("share failed: insert copy: %v", err)
		recordOperation("share", "error")
		return "", ErrShareFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":        caller.UserID,
		"note_id":        string(id),
		"shared_note_id": string(sharedID),
		"recipient":      recipient.Username,
		"action":         "note_share_success",
	}).Info("note shared")
	recordOperation("share", "success")
	return sharedID, nil
}

func (s *NoteService) DeleteAll(ctx context.Context, caller Caller) (int64, error) {
	n, err := s.notes.DeleteAllByOwner(ctx, caller.UserID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": caller.UserID,
			"action":  "notes_clear_failed",
		}).Errorf("clear notes failed: %v", err)
		recordOperation("clear", "error")
		return 0, ErrClearFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"deleted": n,
		"action":  "notes_clear_success",
	}).Info("notes cleared")
	recordOperation("clear", "success")
	recordDeleted(n)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, caller Caller, id domain.ID) error {
	if err := s.notes.DeleteOwned(ctx, id, caller.UserID); err != nil {
		recordOperation("delete", resultOf(err))
		return s.mapLookupError(ctx, caller, id, "note_delete", err, ErrNoteNotFound, ErrDeleteFailed)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"note_id": string(id),
		"action":  "note_delete_success",
	}).Info("note deleted")
	recordOperation("delete", "success")
	recordDeleted(1)
	return nil
}

// mapLookupError turns repository errors for a single owned note into client errors.
// Only unexpected failures are logged; those keep the store error as cause.
func (s *NoteService) mapLookupError(ctx context.Context, caller Caller, id domain.ID, action string, err error, notFound, failed commonerrors.DomainError) error {
	switch {
	case errors.Is(err, noterepo.ErrInvalidID):
		return ErrInvalidNoteID
	case errors.Is(err, noterepo.ErrNoteNotFound):
		return notFound
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": caller.UserID,
		"note_id": string(id),
		"action":  action + "_failed",
	}).Errorf("%s failed: %v", action, err)

	return failed.WithCause(err)
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, noterepo.ErrInvalidID):
		return "invalid"
	case errors.Is(err, noterepo.ErrNoteNotFound):
		return "not_found"
	default:
		return "error"
	}
}
