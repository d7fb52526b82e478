package load

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"
)

// Weight units accepted on a load.
const (
	WeightUnitPounds    = "LBS"
	WeightUnitKilograms = "KG"
)

// Cargo describes what is being hauled.
type Cargo struct {
	Commodity  string
	Weight     float64
	WeightUnit string
	Volume     float64
	Pieces     int
	Pallets    int
	Hazmat     bool
	Oversize   bool
}

// NewCargo validates and normalizes the cargo description. Every quantity must be
// non-negative; the weight unit defaults to LBS.
func NewCargo(c Cargo) (Cargo, error) {
	c.Commodity = strings.TrimSpace(c.Commodity)
	c.WeightUnit = strings.ToUpper(strings.TrimSpace(c.WeightUnit))
	if c.WeightUnit == "" {
		c.WeightUnit = WeightUnitPounds
	}

	var problems []error
	if c.WeightUnit != WeightUnitPounds && c.WeightUnit != WeightUnitKilograms {
		problems = append(problems, errs.NewValueIsInvalidError("weight unit must be LBS or KG"))
	}
	if c.Weight < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("weight must not be negative"))
	}
	if c.Volume < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("volume must not be negative"))
	}
	if c.Pieces < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("pieces must not be negative"))
	}
	if c.Pallets < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("pallets must not be negative"))
	}
	if len(problems) > 0 {
		return Cargo{}, errors.Join(problems...)
	}
	return c, nil
}

// Planning holds the dispatcher's estimates for the trip.
type Planning struct {
	DistanceMiles          float64
	EstimatedDurationHours float64
}

func (p Planning) validate() error {
	if p.DistanceMiles < 0 {
		return errs.NewValueIsInvalidError("distance must not be negative")
	}
	if p.EstimatedDurationHours < 0 {
		return errs.NewValueIsInvalidError("estimated duration must not be negative")
	}
	return nil
}
