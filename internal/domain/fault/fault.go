// Package fault holds the error types shared across domain packages:
// lookups that miss and callers acting on entities they do not own.
package fault

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ForbiddenError reports that the caller has no rights over the target entity.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Forbidden builds a ForbiddenError with the given reason.
func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// IsForbidden reports whether err is (or wraps) a ForbiddenError.
func IsForbidden(err error) bool {
	var fb *ForbiddenError
	return errors.As(err, &fb)
}
