package errs

import (
	"errors"
	"fmt"
)

var ErrResourceConflict = errors.New("resource conflict")

// ResourceConflictError reports an attempt to claim a resource that is already
// committed elsewhere, or a lock that could not be acquired in time.
type ResourceConflictError struct {
	Resource string
	ID       any
	Reason   string
	Cause    error
}

func NewResourceConflictError(resource string, id any, reason string) *ResourceConflictError {
	return &ResourceConflictError{
		Resource: resource,
		ID:       id,
		Reason:   reason,
	}
}

func NewResourceConflictErrorWithCause(resource string, id any, reason string, cause error) *ResourceConflictError {
	return &ResourceConflictError{
		Resource: resource,
		ID:       id,
		Reason:   reason,
		Cause:    cause,
	}
}

func (e *ResourceConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %v %s", ErrResourceConflict, e.Resource, e.ID, e.Reason)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ResourceConflictError) Unwrap() error {
	return ErrResourceConflict
}
