// Package load implements the Load aggregate and its lifecycle state machine.
//
// A Load is a single shipment booked by a tenant. It is created in Created status
// with a fresh load number and tracking token. From then on its status only
// changes through the transition table in transition.go:
//
//	Created → Quoted → Booked → Dispatched → EnRoute → AtPickup → PickedUp →
//	InTransit → AtDelivery → Delivered → Completed*
//	Cancelled* reachable from every non-terminal status
//
// Moves go forward only, and skipping intermediate statuses is allowed. Moving to
// the current status is a no-op. Completed and Cancelled are terminal.
//
// A Load refers to its customer, truck and driver by id only. Resource status
// side effects (assign on dispatch, release on completion or cancellation) are
// reported to the caller as transition effects and applied by the application
// layer within the same unit of work.
//
// The total charge is never stored on its own: the aggregate holds a
// rate.Charges value, which recomputes the total whenever it is built.
package load
