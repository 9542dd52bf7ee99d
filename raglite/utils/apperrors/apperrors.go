// Typed domain errors shared by controllers, DAOs and storage backends.
// The HTTP layer maps these to status codes; nothing here knows about HTTP.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError is malformed or out-of-policy caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateNameError is a relational uniqueness violation translated at the
// service boundary.
type DuplicateNameError struct {
	Message string
}

func (e *DuplicateNameError) Error() string { return e.Message }

func DuplicateName(message string) error {
	return &DuplicateNameError{Message: message}
}

// NotFoundError names a resource that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// AuthorizationError means the requester is not the resource owner.
type AuthorizationError struct {
	Resource string
}

func (e *AuthorizationError) Error() string {
	return "not authorized to access this " + e.Resource
}

func Authorization(resource string) error {
	return &AuthorizationError{Resource: resource}
}

// StorageError is an I/O failure against the active storage backend.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsDuplicateName(err error) bool {
	var target *DuplicateNameError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
