// Package apperrors defines the error taxonomy shared by the attendance
// ledger, location capture and reporting gateways. Handlers translate these
// into HTTP responses in exactly one place; nothing below the handler layer
// writes status codes or swallows a store failure into an empty result.
package apperrors

import (
	"errors"
)

// ValidationError marks a field-level problem with the request payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError covers both "does not exist" and "exists but not yours";
// the two are deliberately indistinguishable to callers.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

func NotFound(what string) error {
	return &NotFoundError{What: what}
}

// ConflictError reports a state the operation refuses to overwrite, or a
// data-integrity alarm such as a natural key matching more than one row.
type ConflictError struct {
	What string
}

func (e *ConflictError) Error() string {
	return e.What
}

func Conflict(what string) error {
	return &ConflictError{What: what}
}

// StoreError wraps a persistence failure. The cause is for logs only; the
// caller-facing message stays generic.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}

// Message returns the caller-facing text for err. Store errors collapse to
// a generic message; the cause belongs in the server log.
func Message(err error) string {
	if IsStore(err) {
		return "database operation failed"
	}
	return err.Error()
}
