// Package errors provides typed errors for the application
package errors

import "errors"

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents malformed or missing input
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a missing or expired resource
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError represents a lost race on a concurrent update
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// PermissionError represents an authorization failure
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// QuotaError represents an exhausted per-user quota
type QuotaError struct {
	baseError
}

// NewQuotaError creates a new QuotaError
func NewQuotaError(msg string) *QuotaError {
	return &QuotaError{baseError{msg: msg}}
}

// InternalError represents a collaborator or infrastructure failure
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsQuotaError checks if error is a QuotaError
func IsQuotaError(err error) bool {
	var target *QuotaError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
