// Package errs provides the typed errors shared by every layer of the freight service.
//
// Each error type follows one pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct type carrying the details
//   - constructors with and without a cause
//   - an Error method that formats a stable message
//   - an Unwrap method returning the sentinel, so errors.Is works across wrapping
//
// The sentinels are grouped into the failure taxonomy used by callers:
//   - NotFound: ErrObjectNotFound. A missing entity and an entity owned by another
//     tenant produce the same error.
//   - InvalidRequest: ErrValueIsInvalid, ErrValueIsRequired, ErrValueIsOutOfRange.
//   - ResourceConflict: ErrResourceConflict.
//   - Internal: anything else.
//
// KindOf classifies an arbitrary error into that taxonomy.
package errs
