package commands

import (
	"errors"

	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRecordLoadEventCommandIsNotConstructed = errors.New(
	"RecordLoadEventCommand must be created via NewRecordLoadEventCommand constructor",
)

// RecordLoadEventCommand appends a committed load event to the load history.
// It is issued by the background worker.
type RecordLoadEventCommand struct {
	event load.Event

	guard guard.ConstructorGuard
}

func NewRecordLoadEventCommand(event load.Event) (RecordLoadEventCommand, error) {
	problems := []error{event.ID.Validate(), event.TenantID.Validate(), event.LoadID.Validate()}
	if event.Type == "" {
		problems = append(problems, errs.NewValueIsRequiredError("event type"))
	}
	if event.OccurredAt.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("event time"))
	}
	if err := errors.Join(problems...); err != nil {
		return RecordLoadEventCommand{}, err
	}
	return RecordLoadEventCommand{event: event, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordLoadEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordLoadEventCommandIsNotConstructed)
}

func (c RecordLoadEventCommand) Event() load.Event {
	return c.event
}
