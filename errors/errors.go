/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when creating an entity whose identity already exists
	ErrConflict = errors.New("entity already exists")

	// ErrInvalidArgument is returned when a caller-supplied argument is missing or out of range
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable is returned for transient backing-store failures.
	// Callers may retry; the repository never retries internally.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnauthorized is returned when credential validation fails
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError represents an identity lookup, update or delete on a missing entity
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError represents a create with a colliding identity
type ConflictError struct {
	Type string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// InvalidArgumentError represents a missing or out-of-range caller argument
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// StoreUnavailableError wraps a transient backing-store failure. The wrapped
// cause is kept for server-side logs; Error() never exposes its text so the
// gateway can surface the message verbatim.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s", e.Op)
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// UnauthorizedError represents a failed credential validation
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unauthorized: %s", e.Reason)
	}
	return "unauthorized"
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewConflictError creates a new ConflictError
func NewConflictError(entityType, key string) error {
	return &ConflictError{Type: entityType, Key: key}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, message string) error {
	return &InvalidArgumentError{Field: field, Message: message}
}

// NewStoreUnavailableError wraps a transient store failure for operation op
func NewStoreUnavailableError(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsStoreUnavailable checks if an error is a transient store failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsUnauthorized checks if an error is an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
