package entity

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these onto HTTP statuses in pkg/http_util;
// anything else surfaces as a generic internal failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyLiked = errors.New("already liked")
	ErrOwnProfile   = errors.New("cannot swipe your own profile")
	ErrUnauthorized = errors.New("unauthorized")
)

// InvalidInputError names the field that failed validation. It is always
// returned before any row is written.
type InvalidInputError struct {
	Field  string
	Detail string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func NewInvalidInput(field, detail string) error {
	return &InvalidInputError{Field: field, Detail: detail}
}

func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
