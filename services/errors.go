package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Errors returned by the stores. Callers match them with errors.Is; the
// message after the colon is detail for logs and clients.
var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrDuplicateReaction     = errors.New("reaction already exists")
	ErrDuplicateSubscription = errors.New("subscription already exists")
	ErrSelfSubscription      = errors.New("cannot subscribe to yourself")
	ErrDuplicateAccount      = errors.New("username or email already taken")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// isDuplicateKey reports a unique constraint violation. gorm translates it when
// the dialector supports TranslateError; the message checks cover drivers that don't.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// mapNotFound converts gorm.ErrRecordNotFound into ErrNotFound and leaves other errors alone.
func mapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return err
}
