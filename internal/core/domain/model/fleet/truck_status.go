package fleet

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// TruckStatus is the registry state of a truck.
//
//	Available ──Assign──> Assigned ──(load moving)──> InTransit
//	    ^                    │                            │
//	    └──────Release───────┴────────────────────────────┘
//
// Maintenance and OutOfService are only entered and left through SetStatus.
type TruckStatus int

const (
	TruckStatusUnknown TruckStatus = iota
	TruckAvailable
	TruckAssigned
	TruckInTransit
	TruckMaintenance
	TruckOutOfService
)

func getTruckStatusStrings() map[TruckStatus]string {
	return map[TruckStatus]string{
		TruckAvailable:    "AVAILABLE",
		TruckAssigned:     "ASSIGNED",
		TruckInTransit:    "IN_TRANSIT",
		TruckMaintenance:  "MAINTENANCE",
		TruckOutOfService: "OUT_OF_SERVICE",
	}
}

// ParseTruckStatus accepts the upper-case wire name, case-insensitively.
func ParseTruckStatus(s string) (TruckStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getTruckStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return TruckStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"truck status",
		fmt.Errorf("%q is not a known truck status", s),
	)
}

// TruckStatuses lists every valid status in declaration order.
func TruckStatuses() []TruckStatus {
	return []TruckStatus{TruckAvailable, TruckAssigned, TruckInTransit, TruckMaintenance, TruckOutOfService}
}

func (s TruckStatus) String() string {
	if str, ok := getTruckStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s TruckStatus) Validate() error {
	if _, ok := getTruckStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("truck status", fmt.Errorf("%d is not a valid truck status", s))
	}
	return nil
}

// IsDispatchable reports whether a truck in this status may be put on a load.
func (s TruckStatus) IsDispatchable() bool {
	return s == TruckAvailable || s == TruckAssigned || s == TruckInTransit
}

// IsHeldByLoad reports whether the status is one a load sets while it holds the truck.
func (s TruckStatus) IsHeldByLoad() bool {
	return s == TruckAssigned || s == TruckInTransit
}
