package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the target of an operation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCategory is returned when a category name collides
	// case-insensitively with a different existing category.
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up with an email that is
	// already registered.
	ErrEmailTaken = errors.New("user with this email already exists")
)

// ReferentialError reports an expense or event that references an entity id
// that does not exist. Dangling references are rejected at the mutation
// surface before any write.
type ReferentialError struct {
	Entity string
	ID     string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Entity, e.ID)
}

// StoreError wraps a failure from the underlying store. The cause is
// preserved for the caller; nothing in this layer retries or swallows it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
