package netcdf

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch = errors.New("element type doesn't match variable")
	ErrNotFound     = errors.New("not found")
	ErrInvalidName  = errors.New("invalid name")
	ErrDuplicate    = errors.New("name already in use")
)

// BackendError is an error returned by the store. Op is the store call
// that failed.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
