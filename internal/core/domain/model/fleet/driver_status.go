package fleet

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// DriverStatus is the registry state of a driver. Assign moves an available
// (or off-duty) driver to OnDuty; Release moves OnDuty back to Available.
type DriverStatus int

const (
	DriverStatusUnknown DriverStatus = iota
	DriverAvailable
	DriverOnDuty
	DriverOffDuty
	DriverOnLeave
	DriverTerminated
)

func getDriverStatusStrings() map[DriverStatus]string {
	return map[DriverStatus]string{
		DriverAvailable:  "AVAILABLE",
		DriverOnDuty:     "ON_DUTY",
		DriverOffDuty:    "OFF_DUTY",
		DriverOnLeave:    "ON_LEAVE",
		DriverTerminated: "TERMINATED",
	}
}

func ParseDriverStatus(s string) (DriverStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getDriverStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return DriverStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"driver status",
		fmt.Errorf("%q is not a known driver status", s),
	)
}

func DriverStatuses() []DriverStatus {
	return []DriverStatus{DriverAvailable, DriverOnDuty, DriverOffDuty, DriverOnLeave, DriverTerminated}
}

func (s DriverStatus) String() string {
	if str, ok := getDriverStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s DriverStatus) Validate() error {
	if _, ok := getDriverStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%d is not a valid driver status", s))
	}
	return nil
}

// IsDispatchable reports whether a driver in this status may be put on a load.
func (s DriverStatus) IsDispatchable() bool {
	return s == DriverAvailable || s == DriverOnDuty || s == DriverOffDuty
}
