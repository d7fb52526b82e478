package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUpdateLoadLocationCommandIsNotConstructed = errors.New(
	"UpdateLoadLocationCommand must be created via NewUpdateLoadLocationCommand constructor",
)

// UpdateLoadLocationCommand records the last known position of a shipment and
// optionally a new estimated arrival.
type UpdateLoadLocationCommand struct {
	tenantID         kernel.UUID
	loadID           kernel.UUID
	point            kernel.GeoPoint
	at               time.Time
	estimatedArrival *time.Time

	guard guard.ConstructorGuard
}

func NewUpdateLoadLocationCommand(
	tenantID, loadID kernel.UUID,
	point kernel.GeoPoint,
	at time.Time,
	estimatedArrival *time.Time,
) (UpdateLoadLocationCommand, error) {
	problems := []error{tenantID.Validate(), loadID.Validate(), point.Validate()}
	if at.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("location timestamp"))
	}
	if err := errors.Join(problems...); err != nil {
		return UpdateLoadLocationCommand{}, err
	}

	c := UpdateLoadLocationCommand{
		tenantID: tenantID,
		loadID:   loadID,
		point:    point,
		at:       at.UTC(),
		guard:    guard.NewConstructorGuard(),
	}
	if estimatedArrival != nil {
		eta := estimatedArrival.UTC()
		c.estimatedArrival = &eta
	}
	return c, nil
}

func (c UpdateLoadLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLoadLocationCommandIsNotConstructed)
}

func (c UpdateLoadLocationCommand) TenantID() kernel.UUID { return c.tenantID }
func (c UpdateLoadLocationCommand) LoadID() kernel.UUID { return c.loadID }
func (c UpdateLoadLocationCommand) Point() kernel.GeoPoint { return c.point }
func (c UpdateLoadLocationCommand) At() time.Time { return c.at }
func (c UpdateLoadLocationCommand) EstimatedArrival() *time.Time { return c.estimatedArrival }
