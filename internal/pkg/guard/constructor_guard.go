// Package guard marks values that were built through their constructor, so a
// zero-value command or query is rejected before a handler touches storage.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands, queries and value objects. Its zero
// value is "not constructed".
//
// Example:
//
//	var ErrDispatchLoadCommandIsNotConstructed = errors.New("...")
//
//	type DispatchLoadCommand struct {
//	    loadID kernel.UUID
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c DispatchLoadCommand) Validate() error {
//	    return c.guard.Validate(ErrDispatchLoadCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
