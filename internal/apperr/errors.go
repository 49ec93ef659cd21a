// Package apperr defines the error taxonomy shared across Murmur layers.
//
// Callers classify failures with errors.Is against the sentinels below;
// wrap helpers attach context while keeping the sentinel in the chain.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks operations addressing an unknown memory ID.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks client-fault input errors; never retried.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks failed reads/writes of the durable collection.
	ErrPersistence = errors.New("persistence failed")
	// ErrAsset marks failed audio/image asset reads or writes.
	ErrAsset = errors.New("asset operation failed")
)

// Validationf returns an ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// Persistence wraps err as an ErrPersistence, or returns nil if err is nil.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// Asset wraps err as an ErrAsset, or returns nil if err is nil.
func Asset(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrAsset, err)
}
