package load

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rate"
	"freight/internal/pkg/errs"
)

var (
	// ErrLoadIsNotConstructed is returned when a Load was not built by NewLoad or Restore.
	ErrLoadIsNotConstructed = errors.New("Load must be created via NewLoad or Restore")

	// ErrLoadIsDeactivated is returned when mutating a soft-deleted load.
	ErrLoadIsDeactivated = errs.NewValueIsInvalidError("load is deactivated")
)

// Details are the fields a dispatcher edits freely: parties, cargo, charges and
// itinerary. Update replaces them as a whole.
type Details struct {
	ReferenceNumber     string
	CustomerID          *kernel.UUID
	Cargo               Cargo
	Charges             rate.Charges
	Pickup              Stop
	Delivery            Stop
	EstimatedArrival    *time.Time
	Planning            Planning
	Notes               string
	SpecialInstructions string
}

// Load is the aggregate root of a shipment.
//
// Invariants:
//   - belongs to exactly one tenant and never changes tenant
//   - load number and tracking token never change
//   - Charges().Total() equals rate.Calculate of its inputs after every write
//   - status changes only through the transition table
//   - dispatchedAt, pickedUpAt, deliveredAt and cancelledAt are each set at most
//     once, by the transition that enters the matching status
//   - a soft-deleted load keeps its status and timestamps
type Load struct {
	id            kernel.UUID
	tenantID      kernel.UUID
	number        string
	trackingToken string

	details Details
	status  Status

	truckID  *kernel.UUID
	driverID *kernel.UUID

	lastPoint   *kernel.GeoPoint
	lastPointAt *time.Time

	dispatchedAt       *time.Time
	pickedUpAt         *time.Time
	deliveredAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string

	active      bool
	createdAt   time.Time
	updatedAt   time.Time
	constructed bool
}

// NewLoad creates a load in Created status.
//
// Parameters:
//   - id, tenantID: valid identifiers
//   - number: from NewLoadNumber
//   - trackingToken: from NewTrackingToken
//   - details: pickup and delivery stops are required, and delivery must not be
//     scheduled before pickup
//   - now: creation time
//
// Returns:
//   - the load, with the total recomputed from details.Charges
//   - a joined validation error listing every problem found
//
// Example:
//
//	number, _ := load.NewLoadNumber(tenantID, now)
//	token, _ := load.NewTrackingToken()
//	l, err := load.NewLoad(kernel.NewUUID(), tenantID, number, token, details, now)
func NewLoad(id, tenantID kernel.UUID, number, trackingToken string, details Details, now time.Time) (*Load, error) {
	l := &Load{
		status:      Created,
		active:      true,
		createdAt:   now.UTC(),
		updatedAt:   now.UTC(),
		constructed: true,
	}

	if err := errors.Join(
		l.setIDs(id, tenantID),
		l.setNumber(number),
		l.setTrackingToken(trackingToken),
		l.setDetails(details),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate ensures the load was built through NewLoad or Restore.
func (l *Load) Validate() error {
	if l == nil || !l.constructed {
		return ErrLoadIsNotConstructed
	}
	return nil
}

func (l *Load) ID() kernel.UUID { return l.id }
func (l *Load) TenantID() kernel.UUID { return l.tenantID }
func (l *Load) Number() string { return l.number }
func (l *Load) TrackingToken() string { return l.trackingToken }
func (l *Load) Status() Status { return l.status }
func (l *Load) IsActive() bool { return l.active }
func (l *Load) CreatedAt() time.Time { return l.createdAt }
func (l *Load) UpdatedAt() time.Time { return l.updatedAt }
func (l *Load) ReferenceNumber() string { return l.details.ReferenceNumber }
func (l *Load) Cargo() Cargo { return l.details.Cargo }
func (l *Load) Charges() rate.Charges { return l.details.Charges }
func (l *Load) Pickup() Stop { return l.details.Pickup }
func (l *Load) Delivery() Stop { return l.details.Delivery }
func (l *Load) Planning() Planning { return l.details.Planning }
func (l *Load) Notes() string { return l.details.Notes }
func (l *Load) SpecialInstructions() string { return l.details.SpecialInstructions }
func (l *Load) CancellationReason() string { return l.cancellationReason }

// Details returns a copy of the editable fields.
func (l *Load) Details() Details {
	d := l.details
	d.CustomerID = copyUUID(d.CustomerID)
	d.EstimatedArrival = copyTime(d.EstimatedArrival)
	return d
}

func (l *Load) CustomerID() *kernel.UUID { return copyUUID(l.details.CustomerID) }
func (l *Load) TruckID() *kernel.UUID { return copyUUID(l.truckID) }
func (l *Load) DriverID() *kernel.UUID { return copyUUID(l.driverID) }
func (l *Load) EstimatedArrival() *time.Time { return copyTime(l.details.EstimatedArrival) }
func (l *Load) LastPointAt() *time.Time { return copyTime(l.lastPointAt) }
func (l *Load) DispatchedAt() *time.Time { return copyTime(l.dispatchedAt) }
func (l *Load) PickedUpAt() *time.Time { return copyTime(l.pickedUpAt) }
func (l *Load) DeliveredAt() *time.Time { return copyTime(l.deliveredAt) }
func (l *Load) CancelledAt() *time.Time { return copyTime(l.cancelledAt) }

// LastPoint is the last coordinate reported for the load, or nil.
func (l *Load) LastPoint() *kernel.GeoPoint {
	if l.lastPoint == nil {
		return nil
	}
	p := *l.lastPoint
	return &p
}

// BelongsTo reports whether the load is owned by tenantID.
func (l *Load) BelongsTo(tenantID kernel.UUID) bool {
	return l.tenantID.IsEqual(tenantID)
}

// HoldsResources reports whether the load currently holds its truck and driver:
// it is active and not in a terminal status.
func (l *Load) HoldsResources() bool {
	return l.active && l.status.IsActive()
}

// Update replaces the editable details and recomputes the total. Status and
// resource assignment are untouched.
func (l *Load) Update(details Details, now time.Time) error {
	if !l.active {
		return ErrLoadIsDeactivated
	}
	if err := l.setDetails(details); err != nil {
		return err
	}
	l.touch(now)
	return nil
}

// CheckDispatch reports why Dispatch would be rejected, or nil.
func (l *Load) CheckDispatch() error {
	if !l.active {
		return ErrLoadIsDeactivated
	}
	if !l.status.CanBeDispatched() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("a load in %s cannot be dispatched", l.status),
		)
	}
	return nil
}

// Assignment is the outcome of Dispatch.
type Assignment struct {
	// Transition is the status move performed, zero when the load was already
	// Dispatched.
	Transition Transition
	// StatusChanged reports whether the status moved.
	StatusChanged bool
	// ReplacedTruck and ReplacedDriver are resources the load held before and no
	// longer holds. The caller releases them.
	ReplacedTruck  *kernel.UUID
	ReplacedDriver *kernel.UUID
}

// Dispatch attaches the given resources and moves the load to Dispatched.
//
// A nil truckID or driverID leaves that side of the assignment unchanged.
// Dispatching an already Dispatched load replaces its resources and keeps the
// original dispatchedAt.
//
// Returns a ValueIsInvalidError when the load is deactivated, terminal, or has
// moved past Dispatched.
func (l *Load) Dispatch(truckID, driverID *kernel.UUID, now time.Time) (Assignment, error) {
	if err := l.CheckDispatch(); err != nil {
		return Assignment{}, err
	}

	var out Assignment
	if truckID != nil {
		if err := truckID.Validate(); err != nil {
			return Assignment{}, err
		}
		if l.truckID != nil && !l.truckID.IsEqual(*truckID) {
			out.ReplacedTruck = copyUUID(l.truckID)
		}
		l.truckID = copyUUID(truckID)
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return Assignment{}, err
		}
		if l.driverID != nil && !l.driverID.IsEqual(*driverID) {
			out.ReplacedDriver = copyUUID(l.driverID)
		}
		l.driverID = copyUUID(driverID)
	}

	transition, changed, err := PlanTransition(l.status, Dispatched)
	if err != nil {
		return Assignment{}, err
	}
	if changed {
		l.apply(transition, "", now)
	}
	out.Transition = transition
	out.StatusChanged = changed
	l.touch(now)
	return out, nil
}

// ChangeStatus moves the load to target through the transition table and runs
// the timestamp effects. Resource release is left to the caller, who checks
// Transition.Has(ReleaseResources).
//
// Returns:
//   - the transition and true when the status moved
//   - a zero transition and false when target is the current status
//   - a ValueIsInvalidError for a move the table does not allow
func (l *Load) ChangeStatus(target Status, reason string, now time.Time) (Transition, bool, error) {
	if !l.active {
		return Transition{}, false, ErrLoadIsDeactivated
	}
	transition, changed, err := PlanTransition(l.status, target)
	if err != nil || !changed {
		return transition, false, err
	}
	l.apply(transition, reason, now)
	l.touch(now)
	return transition, true, nil
}

// RecordPosition stores the last known coordinate of the shipment and, when eta
// is given, the estimated arrival. Reports older than the stored one are
// ignored; the result tells whether the report was kept.
func (l *Load) RecordPosition(point kernel.GeoPoint, at time.Time, eta *time.Time) (bool, error) {
	if err := point.Validate(); err != nil {
		return false, err
	}
	if at.IsZero() {
		return false, errs.NewValueIsRequiredError("location timestamp")
	}
	if l.lastPointAt != nil && at.Before(*l.lastPointAt) {
		return false, nil
	}
	l.lastPoint = &point
	at = at.UTC()
	l.lastPointAt = &at
	if eta != nil {
		l.details.EstimatedArrival = copyTime(eta)
	}
	l.touch(at)
	return true, nil
}

// Deactivate soft-deletes the load and reports whether it was active.
func (l *Load) Deactivate(now time.Time) bool {
	if !l.active {
		return false
	}
	l.active = false
	l.touch(now)
	return true
}

func (l *Load) apply(t Transition, reason string, now time.Time) {
	at := now.UTC()
	for _, effect := range t.Effects {
		switch effect {
		case StampDispatched:
			stampOnce(&l.dispatchedAt, at)
		case StampPickedUp:
			stampOnce(&l.pickedUpAt, at)
		case StampDelivered:
			stampOnce(&l.deliveredAt, at)
		case StampCancelled:
			stampOnce(&l.cancelledAt, at)
			l.cancellationReason = strings.TrimSpace(reason)
		case ReleaseResources:
			// applied by the caller against the registry
		}
	}
	l.status = t.To
}

func (l *Load) touch(now time.Time) {
	if now.After(l.updatedAt) {
		l.updatedAt = now.UTC()
	}
}

func (l *Load) setIDs(id, tenantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	l.id = id
	l.tenantID = tenantID
	return nil
}

func (l *Load) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("load number")
	}
	l.number = number
	return nil
}

func (l *Load) setTrackingToken(token string) error {
	if !IsTrackingTokenShaped(token) {
		return errs.NewValueIsInvalidError("tracking token")
	}
	l.trackingToken = token
	return nil
}

func (l *Load) setDetails(d Details) error {
	var problems []error

	if d.CustomerID != nil {
		if err := d.CustomerID.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if d.Pickup.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("pickup"))
	}
	if d.Delivery.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("delivery"))
	}
	if !d.Pickup.IsZero() && !d.Delivery.IsZero() && d.Delivery.At.Before(d.Pickup.At) {
		problems = append(problems, errs.NewValueIsInvalidError("delivery must not be scheduled before pickup"))
	}
	cargo, err := NewCargo(d.Cargo)
	if err != nil {
		problems = append(problems, err)
	}
	if err = d.Planning.validate(); err != nil {
		problems = append(problems, err)
	}
	charges, err := rate.NewCharges(d.Charges.Rate(), d.Charges.FuelSurcharge(), d.Charges.Accessorials(), d.Charges.Currency())
	if err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	d.Cargo = cargo
	d.Charges = charges
	d.ReferenceNumber = strings.TrimSpace(d.ReferenceNumber)
	d.Notes = strings.TrimSpace(d.Notes)
	d.SpecialInstructions = strings.TrimSpace(d.SpecialInstructions)
	d.CustomerID = copyUUID(d.CustomerID)
	if d.EstimatedArrival != nil {
		eta := d.EstimatedArrival.UTC()
		d.EstimatedArrival = &eta
	}
	l.details = d
	return nil
}

func stampOnce(field **time.Time, at time.Time) {
	if *field == nil {
		*field = &at
	}
}

func copyUUID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
