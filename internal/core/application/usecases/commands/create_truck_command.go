package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCreateTruckCommandIsNotConstructed = errors.New(
	"CreateTruckCommand must be created via NewCreateTruckCommand constructor",
)

// CreateTruckCommand registers a truck in the tenant's fleet.
type CreateTruckCommand struct {
	tenantID  kernel.UUID
	number    string
	truckType fleet.TruckType
	spec      fleet.TruckSpec

	guard guard.ConstructorGuard
}

// NewCreateTruckCommand parses the truck type; an empty type means DRY_VAN.
func NewCreateTruckCommand(tenantID kernel.UUID, number, truckType string, spec fleet.TruckSpec) (CreateTruckCommand, error) {
	parsed, typeErr := fleet.ParseTruckType(truckType)
	if err := errors.Join(tenantID.Validate(), typeErr); err != nil {
		return CreateTruckCommand{}, err
	}
	return CreateTruckCommand{
		tenantID:  tenantID,
		number:    strings.TrimSpace(number),
		truckType: parsed,
		spec:      spec,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateTruckCommand) Validate() error {
	return c.guard.Validate(ErrCreateTruckCommandIsNotConstructed)
}

func (c CreateTruckCommand) TenantID() kernel.UUID { return c.tenantID }
func (c CreateTruckCommand) Number() string { return c.number }
func (c CreateTruckCommand) Type() fleet.TruckType { return c.truckType }
func (c CreateTruckCommand) Spec() fleet.TruckSpec { return c.spec }
