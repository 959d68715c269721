package service

import (
	"net/http"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

var (
	ErrTitleContentRequired = commonerrors.NewDomainError(
		"TITLE_CONTENT_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Title and content are required",
	)

	ErrUsernameRequired = commonerrors.NewDomainError(
		"USERNAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Username is required",
	)

	ErrShareWithSelf = commonerrors.NewDomainError(
		"SHARE_WITH_SELF",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Cannot share note with yourself",
	)

	ErrInvalidNoteID = commonerrors.NewDomainError(
		"INVALID_NOTE_ID",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Invalid note id",
	)

	ErrNoteNotFound = commonerrors.NewDomainError(
		"NOTE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Note not found",
	)

	ErrSharedNoteNotFound = commonerrors.NewDomainError(
		"SHARE_SOURCE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Note not found or you do not own this note",
	)

	ErrRecipientNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)

	ErrListFailed   = internalError("NOTES_LIST_FAILED", "Server Error")
	ErrCreateFailed = internalError("NOTE_CREATE_FAILED", "Server error")
	ErrUpdateFailed = internalError("NOTE_UPDATE_FAILED", "Error updating note")
	ErrShareFailed  = internalError("NOTE_SHARE_FAILED", "Error sharing note")
	ErrClearFailed  = internalError("NOTES_CLEAR_FAILED", "Error clearing notes")
	ErrDeleteFailed = internalError("NOTE_DELETE_FAILED", "Error deleting note")
)

func internalError(code, message string) commonerrors.DomainError {
	return commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
}
