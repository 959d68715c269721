package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

var ErrInvalidBody = commonerrors.NewDomainError(
	CodeInvalidJSON,
	commonerrors.CategoryValidation,
	http.StatusBadRequest,
	"Invalid request body",
)

var ErrBodyTooLarge = commonerrors.NewDomainError(
	CodePayloadTooLarge,
	commonerrors.CategoryValidation,
	http.StatusRequestEntityTooLarge,
	"Request body too large",
)

// DecodeBody fills v from a JSON or form-urlencoded body. Form values are mapped onto the
// same json field names, so request types only need json tags. An empty body leaves v
// untouched and lets field validation report what is missing.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return decodeForm(r, v)
	}

	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case isTooLarge(err):
		return ErrBodyTooLarge.WithCause(err)
	default:
		return ErrInvalidBody.WithCause(err)
	}
}

func decodeForm(r *http.Request, v any) error {
	if err := r.ParseForm(); err != nil {
		if isTooLarge(err) {
			return ErrBodyTooLarge.WithCause(err)
		}
		return ErrInvalidBody.WithCause(err)
	}

	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return ErrInvalidBody.WithCause(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ErrInvalidBody.WithCause(err)
	}
	return nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
