package load

import (
	"fmt"
	"slices"

	"freight/internal/pkg/errs"
)

// Effect is a side effect attached to entering a status.
type Effect int

const (
	// StampDispatched records dispatchedAt.
	StampDispatched Effect = iota + 1
	// StampPickedUp records pickedUpAt.
	StampPickedUp
	// StampDelivered records deliveredAt.
	StampDelivered
	// StampCancelled records cancelledAt and the cancellation reason.
	StampCancelled
	// ReleaseResources returns the assigned truck and driver to available.
	ReleaseResources
)

func (e Effect) String() string {
	switch e {
	case StampDispatched:
		return "stamp_dispatched"
	case StampPickedUp:
		return "stamp_picked_up"
	case StampDelivered:
		return "stamp_delivered"
	case StampCancelled:
		return "stamp_cancelled"
	case ReleaseResources:
		return "release_resources"
	default:
		return "unknown"
	}
}

// effectsOnEnter lists the effects of entering each status, whatever the origin.
var effectsOnEnter = map[Status][]Effect{
	Dispatched: {StampDispatched},
	PickedUp:   {StampPickedUp},
	Delivered:  {StampDelivered},
	Completed:  {ReleaseResources},
	Cancelled:  {StampCancelled, ReleaseResources},
}

// Transition is one row of the table: moving From → To runs Effects in order.
type Transition struct {
	From    Status
	To      Status
	Effects []Effect
}

// Has reports whether the transition carries effect.
func (t Transition) Has(effect Effect) bool {
	return slices.Contains(t.Effects, effect)
}

// transitionTable is keyed by (from, to). It is built once from the lifecycle
// order: every non-terminal status may move to any later status, and to Cancelled.
var transitionTable = buildTransitionTable()

func buildTransitionTable() map[Status]map[Status]Transition {
	order := []Status{
		Created, Quoted, Booked, Dispatched, EnRoute, AtPickup,
		PickedUp, InTransit, AtDelivery, Delivered, Completed,
	}

	table := make(map[Status]map[Status]Transition)
	for i, from := range order {
		if from.IsTerminal() {
			continue
		}
		rows := make(map[Status]Transition)
		for _, to := range order[i+1:] {
			rows[to] = Transition{From: from, To: to, Effects: effectsOnEnter[to]}
		}
		rows[Cancelled] = Transition{From: from, To: Cancelled, Effects: effectsOnEnter[Cancelled]}
		table[from] = rows
	}
	return table
}

// TransitionTable returns a copy of every allowed transition, ordered by
// (From, To).
func TransitionTable() []Transition {
	var all []Transition
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if t, ok := transitionTable[from][to]; ok {
				all = append(all, Transition{From: t.From, To: t.To, Effects: slices.Clone(t.Effects)})
			}
		}
	}
	return all
}

// CanTransition reports whether from → to is a row of the table.
func CanTransition(from, to Status) bool {
	_, ok := transitionTable[from][to]
	return ok
}

// PlanTransition looks up from → to.
//
// Returns:
//   - the transition and true when it is allowed
//   - a zero transition and false when from == to (the caller treats this as a no-op)
//   - a ValueIsInvalidError for unknown statuses, backward moves and moves out of
//     a terminal status
func PlanTransition(from, to Status) (Transition, bool, error) {
	if err := to.Validate(); err != nil {
		return Transition{}, false, err
	}
	if from == to {
		return Transition{}, false, nil
	}
	t, ok := transitionTable[from][to]
	if !ok {
		return Transition{}, false, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot move a load from %s to %s", from, to),
		)
	}
	return Transition{From: t.From, To: t.To, Effects: slices.Clone(t.Effects)}, true, nil
}
