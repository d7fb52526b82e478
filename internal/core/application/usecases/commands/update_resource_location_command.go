package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUpdateResourceLocationCommandIsNotConstructed = errors.New(
	"UpdateResourceLocationCommand must be created via NewUpdateResourceLocationCommand constructor",
)

// UpdateResourceLocationCommand stores the last reported coordinate of a truck
// or driver.
type UpdateResourceLocationCommand struct {
	tenantID   kernel.UUID
	kind       ports.ResourceKind
	resourceID kernel.UUID
	point      kernel.GeoPoint
	at         time.Time

	guard guard.ConstructorGuard
}

func NewUpdateResourceLocationCommand(
	tenantID kernel.UUID,
	kind ports.ResourceKind,
	resourceID kernel.UUID,
	point kernel.GeoPoint,
	at time.Time,
) (UpdateResourceLocationCommand, error) {
	problems := []error{tenantID.Validate(), resourceID.Validate(), point.Validate()}
	if kind != ports.ResourceTruck && kind != ports.ResourceDriver {
		problems = append(problems, errs.NewValueIsInvalidError("resource kind"))
	}
	if at.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("location timestamp"))
	}
	if err := errors.Join(problems...); err != nil {
		return UpdateResourceLocationCommand{}, err
	}
	return UpdateResourceLocationCommand{
		tenantID:   tenantID,
		kind:       kind,
		resourceID: resourceID,
		point:      point,
		at:         at.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateResourceLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateResourceLocationCommandIsNotConstructed)
}

func (c UpdateResourceLocationCommand) TenantID() kernel.UUID { return c.tenantID }
func (c UpdateResourceLocationCommand) Kind() ports.ResourceKind { return c.kind }
func (c UpdateResourceLocationCommand) ResourceID() kernel.UUID { return c.resourceID }
func (c UpdateResourceLocationCommand) Point() kernel.GeoPoint { return c.point }
func (c UpdateResourceLocationCommand) At() time.Time { return c.at }
