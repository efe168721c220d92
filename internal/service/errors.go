package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError identifies a missing referenced entity by resource and id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError rejects malformed input (bad step sequence, past-date
// scheduling, unknown enum values).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError rejects an operation whose status guard failed; distinct
// from NotFoundError so handlers can map it to 409.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func notFound(resource, id string) error { return &NotFoundError{Resource: resource, ID: id} }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func preconditionErr(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// wrapRecordErr translates the store's missing-row error into the service
// taxonomy; other store errors pass through unmodified.
func wrapRecordErr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(resource, id)
	}
	return err
}
