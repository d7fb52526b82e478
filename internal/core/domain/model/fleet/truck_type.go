package fleet

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// TruckType is the equipment class of a truck.
type TruckType string

const (
	DryVan      TruckType = "DRY_VAN"
	Reefer      TruckType = "REEFER"
	Flatbed     TruckType = "FLATBED"
	Tanker      TruckType = "TANKER"
	BoxTruck    TruckType = "BOX_TRUCK"
	SprinterVan TruckType = "SPRINTER_VAN"
	CarCarrier  TruckType = "CAR_CARRIER"
)

func TruckTypes() []TruckType {
	return []TruckType{DryVan, Reefer, Flatbed, Tanker, BoxTruck, SprinterVan, CarCarrier}
}

// ParseTruckType normalizes s. An empty string means DryVan.
func ParseTruckType(s string) (TruckType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return DryVan, nil
	}
	for _, t := range TruckTypes() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("truck type", fmt.Errorf("%q is not a known truck type", s))
}
