package service

import (
	"github.com/go-playground/validator/v10"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateInput(input any, failure commonerrors.DomainError) error {
	if err := validate.Struct(input); err != nil {
		return failure.WithCause(err)
	}
	return nil
}
