package cache

import (
	"errors"
	"fmt"
)

var errStoreClosed = errors.New("cache store is not open")

// StoreError wraps a cache failure with the operation that produced it.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStoreError wraps err with the operation name. A nil err stays nil.
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Operation: operation, Err: err}
}
