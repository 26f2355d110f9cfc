// Package apperror carries a status-coded error taxonomy from the services to
// the single JSON-rendering boundary in the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	Validation Kind = iota + 1
	Auth
	Forbidden
	NotFound
	Conflict
	Internal
)

// Error pairs a user-visible message with a Kind. Err, when set, is the
// underlying cause and is logged but never serialized.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// FromDB maps common GORM errors to the taxonomy. notFoundMsg names the entity
// for the 404 case.
func FromDB(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(NotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(Conflict, "el registro ya existe", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(Conflict, "el registro está en uso", err)
	default:
		return Wrap(Internal, "error interno del servidor", err)
	}
}
