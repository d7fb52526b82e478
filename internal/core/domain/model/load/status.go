package load

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a load. The numeric order of the constants
// from Created to Completed is the forward order of the lifecycle.
type Status int

const (
	StatusUnknown Status = iota
	Created
	Quoted
	Booked
	Dispatched
	EnRoute
	AtPickup
	PickedUp
	InTransit
	AtDelivery
	Delivered
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Created:    "CREATED",
		Quoted:     "QUOTED",
		Booked:     "BOOKED",
		Dispatched: "DISPATCHED",
		EnRoute:    "EN_ROUTE",
		AtPickup:   "AT_PICKUP",
		PickedUp:   "PICKED_UP",
		InTransit:  "IN_TRANSIT",
		AtDelivery: "AT_DELIVERY",
		Delivered:  "DELIVERED",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// Statuses returns every valid status in lifecycle order, Cancelled last.
func Statuses() []Status {
	return []Status{
		Created, Quoted, Booked, Dispatched, EnRoute, AtPickup,
		PickedUp, InTransit, AtDelivery, Delivered, Completed, Cancelled,
	}
}

// ParseStatus accepts the wire name ("IN_TRANSIT"), case-insensitively.
//
// Returns a ValueIsInvalidError for any other input.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known load status", s))
}

// String returns the wire name, or "UNKNOWN" for values outside the enum.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects StatusUnknown and any value outside the enum.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid load status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActive reports whether a load in this status holds its truck and driver.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

// CanBeDispatched reports whether Dispatch is allowed from this status. A load
// that has moved past Dispatched can no longer be (re)dispatched.
func (s Status) CanBeDispatched() bool {
	return s >= Created && s <= Dispatched
}

// MarshalText encodes the wire name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a wire name. An empty value decodes to StatusUnknown.
func (s *Status) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = StatusUnknown
		return nil
	}
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
