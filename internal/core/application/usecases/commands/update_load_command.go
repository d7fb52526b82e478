package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/guard"
)

var ErrUpdateLoadCommandIsNotConstructed = errors.New(
	"UpdateLoadCommand must be created via NewUpdateLoadCommand constructor",
)

// UpdateLoadCommand replaces the editable details of a load. Status and
// resources are not part of it.
type UpdateLoadCommand struct {
	tenantID kernel.UUID
	loadID   kernel.UUID
	details  load.Details

	guard guard.ConstructorGuard
}

func NewUpdateLoadCommand(tenantID, loadID kernel.UUID, details load.Details) (UpdateLoadCommand, error) {
	if err := errors.Join(tenantID.Validate(), loadID.Validate()); err != nil {
		return UpdateLoadCommand{}, err
	}
	return UpdateLoadCommand{
		tenantID: tenantID,
		loadID:   loadID,
		details:  details,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLoadCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLoadCommandIsNotConstructed)
}

func (c UpdateLoadCommand) TenantID() kernel.UUID { return c.tenantID }
func (c UpdateLoadCommand) LoadID() kernel.UUID { return c.loadID }
func (c UpdateLoadCommand) Details() load.Details { return c.details }
