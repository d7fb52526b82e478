package fleet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrTruckIsNotConstructed = errors.New("Truck must be created via NewTruck or RestoreTruck")

// TruckSpec carries the descriptive fields of a truck.
type TruckSpec struct {
	VIN   string
	Make  string
	Model string
	Year  int
	Plate string
}

// Truck is a registry entry for a power unit owned by one tenant.
//
// Invariants:
//   - belongs to exactly one tenant
//   - has a non-empty truck number
//   - status is always a valid TruckStatus
type Truck struct {
	id          kernel.UUID
	tenantID    kernel.UUID
	number      string
	truckType   TruckType
	spec        TruckSpec
	status      TruckStatus
	lastPoint   *kernel.GeoPoint
	lastSeenAt  *time.Time
	active      bool
	constructed bool
}

// NewTruck registers a truck in the Available status.
//
// Parameters:
//   - id, tenantID: identifiers; both must be valid
//   - number: the fleet number painted on the unit (unique per tenant, enforced by storage)
//   - truckType: equipment class
//   - spec: VIN, make, model, year and plate; year, when set, must be 1950..2100
//
// Returns:
//   - the truck
//   - a joined validation error describing every invalid field
func NewTruck(id, tenantID kernel.UUID, number string, truckType TruckType, spec TruckSpec) (*Truck, error) {
	t := &Truck{
		status:      TruckAvailable,
		active:      true,
		constructed: true,
	}

	if err := errors.Join(
		t.setIDs(id, tenantID),
		t.setNumber(number),
		t.setType(truckType),
		t.setSpec(spec),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// TruckSnapshot is the persisted state of a truck, used by RestoreTruck.
type TruckSnapshot struct {
	ID         kernel.UUID
	TenantID   kernel.UUID
	Number     string
	Type       TruckType
	Spec       TruckSpec
	Status     TruckStatus
	LastPoint  *kernel.GeoPoint
	LastSeenAt *time.Time
	Active     bool
}

// RestoreTruck rebuilds a truck from storage, re-validating every field.
func RestoreTruck(s TruckSnapshot) (*Truck, error) {
	t, err := NewTruck(s.ID, s.TenantID, s.Number, s.Type, s.Spec)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	t.status = s.Status
	t.active = s.Active
	if s.LastPoint != nil {
		p := *s.LastPoint
		t.lastPoint = &p
	}
	if s.LastSeenAt != nil {
		at := *s.LastSeenAt
		t.lastSeenAt = &at
	}
	return t, nil
}

// Snapshot exports the state for persistence.
func (t *Truck) Snapshot() TruckSnapshot {
	return TruckSnapshot{
		ID:         t.id,
		TenantID:   t.tenantID,
		Number:     t.number,
		Type:       t.truckType,
		Spec:       t.spec,
		Status:     t.status,
		LastPoint:  t.LastPoint(),
		LastSeenAt: t.LastSeenAt(),
		Active:     t.active,
	}
}

func (t *Truck) Validate() error {
	if t == nil || !t.constructed {
		return ErrTruckIsNotConstructed
	}
	return nil
}

func (t *Truck) ID() kernel.UUID { return t.id }
func (t *Truck) TenantID() kernel.UUID { return t.tenantID }
func (t *Truck) Number() string { return t.number }
func (t *Truck) Type() TruckType { return t.truckType }
func (t *Truck) Spec() TruckSpec { return t.spec }
func (t *Truck) Status() TruckStatus { return t.status }
func (t *Truck) IsActive() bool { return t.active }

// LastPoint returns the last reported coordinate, or nil if none was reported.
func (t *Truck) LastPoint() *kernel.GeoPoint {
	if t.lastPoint == nil {
		return nil
	}
	p := *t.lastPoint
	return &p
}

func (t *Truck) LastSeenAt() *time.Time {
	if t.lastSeenAt == nil {
		return nil
	}
	at := *t.lastSeenAt
	return &at
}

// BelongsTo reports whether the truck is owned by tenantID.
func (t *Truck) BelongsTo(tenantID kernel.UUID) bool {
	return t.tenantID.IsEqual(tenantID)
}

// SetStatus is the manual status edit. Setting the current status is a no-op.
func (t *Truck) SetStatus(status TruckStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	t.status = status
	return nil
}

// Assign marks the truck as held by a load.
//
// Returns a ResourceConflictError when the truck is in maintenance or out of
// service, or has been deactivated.
func (t *Truck) Assign() error {
	if !t.active {
		return errs.NewResourceConflictError("truck", t.number, "is deactivated")
	}
	if !t.status.IsDispatchable() {
		return errs.NewResourceConflictError("truck", t.number, fmt.Sprintf("is %s", t.status))
	}
	t.status = TruckAssigned
	return nil
}

// Release returns a truck held by a load to Available. A truck whose status was
// edited by hand in the meantime (maintenance, out of service) keeps it.
// Reports whether the status changed.
func (t *Truck) Release() bool {
	if !t.status.IsHeldByLoad() {
		return false
	}
	t.status = TruckAvailable
	return true
}

// UpdateLocation stores the latest coordinate. Reports older than the stored
// one are ignored.
func (t *Truck) UpdateLocation(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("location timestamp")
	}
	if t.lastSeenAt != nil && at.Before(*t.lastSeenAt) {
		return nil
	}
	t.lastPoint = &point
	at = at.UTC()
	t.lastSeenAt = &at
	return nil
}

// Deactivate soft-deletes the truck. Repeating it is a no-op.
func (t *Truck) Deactivate() {
	t.active = false
}

func (t *Truck) setIDs(id, tenantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	t.id = id
	t.tenantID = tenantID
	return nil
}

func (t *Truck) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("truck number")
	}
	t.number = number
	return nil
}

func (t *Truck) setType(truckType TruckType) error {
	parsed, err := ParseTruckType(string(truckType))
	if err != nil {
		return err
	}
	t.truckType = parsed
	return nil
}

func (t *Truck) setSpec(spec TruckSpec) error {
	if spec.Year != 0 && (spec.Year < 1950 || spec.Year > 2100) {
		return errs.NewValueIsOutOfRangeError("year", spec.Year, 1950, 2100)
	}
	spec.VIN = strings.ToUpper(strings.TrimSpace(spec.VIN))
	spec.Plate = strings.ToUpper(strings.TrimSpace(spec.Plate))
	spec.Make = strings.TrimSpace(spec.Make)
	spec.Model = strings.TrimSpace(spec.Model)
	t.spec = spec
	return nil
}
