package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrDeleteLoadCommandIsNotConstructed = errors.New(
	"DeleteLoadCommand must be created via NewDeleteLoadCommand constructor",
)

// DeleteLoadCommand soft-deletes a load.
type DeleteLoadCommand struct {
	tenantID kernel.UUID
	loadID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteLoadCommand(tenantID, loadID kernel.UUID) (DeleteLoadCommand, error) {
	if err := errors.Join(tenantID.Validate(), loadID.Validate()); err != nil {
		return DeleteLoadCommand{}, err
	}
	return DeleteLoadCommand{tenantID: tenantID, loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteLoadCommand) Validate() error {
	return c.guard.Validate(ErrDeleteLoadCommandIsNotConstructed)
}

func (c DeleteLoadCommand) TenantID() kernel.UUID { return c.tenantID }
func (c DeleteLoadCommand) LoadID() kernel.UUID { return c.loadID }
