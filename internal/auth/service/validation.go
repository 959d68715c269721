package service

import (
	"errors"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", validPasswordLength)
	return v
}

// validPasswordLength counts UTF-16 code units, matching the length browser clients report,
// so a surrogate pair counts twice.
func validPasswordLength(fl validator.FieldLevel) bool {
	return len(utf16.Encode([]rune(fl.Field().String()))) >= constants.PasswordMinLength
}

// validateInput maps validator failures onto the client messages of each endpoint.
// A missing field wins over a short password.
func validateInput(input any, missing, tooShort commonerrors.DomainError) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return missing.WithCause(err)
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return missing
		}
	}
	if tooShort != nil {
		return tooShort
	}
	return missing
}
