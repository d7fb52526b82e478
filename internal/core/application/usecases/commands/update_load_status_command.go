package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/guard"
)

var ErrUpdateLoadStatusCommandIsNotConstructed = errors.New(
	"UpdateLoadStatusCommand must be created via NewUpdateLoadStatusCommand constructor",
)

// UpdateLoadStatusCommand moves a load through its lifecycle. The status is
// given by name; reason is kept only for cancellations.
type UpdateLoadStatusCommand struct {
	tenantID kernel.UUID
	loadID   kernel.UUID
	status   load.Status
	reason   string

	guard guard.ConstructorGuard
}

// NewUpdateLoadStatusCommand parses status. An unknown name is a
// ValueIsInvalidError.
func NewUpdateLoadStatusCommand(tenantID, loadID kernel.UUID, status, reason string) (UpdateLoadStatusCommand, error) {
	parsed, statusErr := load.ParseStatus(status)
	if err := errors.Join(tenantID.Validate(), loadID.Validate(), statusErr); err != nil {
		return UpdateLoadStatusCommand{}, err
	}
	return UpdateLoadStatusCommand{
		tenantID: tenantID,
		loadID:   loadID,
		status:   parsed,
		reason:   strings.TrimSpace(reason),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLoadStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLoadStatusCommandIsNotConstructed)
}

func (c UpdateLoadStatusCommand) TenantID() kernel.UUID { return c.tenantID }
func (c UpdateLoadStatusCommand) LoadID() kernel.UUID { return c.loadID }
func (c UpdateLoadStatusCommand) Status() load.Status { return c.status }
func (c UpdateLoadStatusCommand) Reason() string { return c.reason }
