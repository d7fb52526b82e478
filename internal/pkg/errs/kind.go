package errs

import "errors"

// Kind is the caller-facing failure category of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidRequest
	KindResourceConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindResourceConflict:
		return "ResourceConflict"
	default:
		return "Internal"
	}
}

// KindOf classifies err. A nil error is reported as KindInternal; callers are
// expected to check for nil first.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrResourceConflict):
		return KindResourceConflict
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindInvalidRequest
	default:
		return KindInternal
	}
}
