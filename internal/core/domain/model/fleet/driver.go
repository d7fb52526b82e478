package fleet

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")

// DriverContact carries the personal fields of a driver.
type DriverContact struct {
	FirstName     string
	LastName      string
	LicenseNumber string
	Phone         string
	Email         string
}

// Driver is a registry entry for a person who can be dispatched on a load.
type Driver struct {
	id          kernel.UUID
	tenantID    kernel.UUID
	contact     DriverContact
	status      DriverStatus
	lastPoint   *kernel.GeoPoint
	lastSeenAt  *time.Time
	active      bool
	constructed bool
}

// NewDriver registers a driver in the Available status. First and last name
// are required; an email, when given, must parse as an address.
func NewDriver(id, tenantID kernel.UUID, contact DriverContact) (*Driver, error) {
	d := &Driver{
		status:      DriverAvailable,
		active:      true,
		constructed: true,
	}

	if err := errors.Join(
		d.setIDs(id, tenantID),
		d.setContact(contact),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// DriverSnapshot is the persisted state of a driver.
type DriverSnapshot struct {
	ID         kernel.UUID
	TenantID   kernel.UUID
	Contact    DriverContact
	Status     DriverStatus
	LastPoint  *kernel.GeoPoint
	LastSeenAt *time.Time
	Active     bool
}

func RestoreDriver(s DriverSnapshot) (*Driver, error) {
	d, err := NewDriver(s.ID, s.TenantID, s.Contact)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	d.status = s.Status
	d.active = s.Active
	if s.LastPoint != nil {
		p := *s.LastPoint
		d.lastPoint = &p
	}
	if s.LastSeenAt != nil {
		at := *s.LastSeenAt
		d.lastSeenAt = &at
	}
	return d, nil
}

func (d *Driver) Snapshot() DriverSnapshot {
	return DriverSnapshot{
		ID:         d.id,
		TenantID:   d.tenantID,
		Contact:    d.contact,
		Status:     d.status,
		LastPoint:  d.LastPoint(),
		LastSeenAt: d.LastSeenAt(),
		Active:     d.active,
	}
}

func (d *Driver) Validate() error {
	if d == nil || !d.constructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

func (d *Driver) ID() kernel.UUID { return d.id }
func (d *Driver) TenantID() kernel.UUID { return d.tenantID }
func (d *Driver) Contact() DriverContact { return d.contact }
func (d *Driver) Status() DriverStatus { return d.status }
func (d *Driver) IsActive() bool { return d.active }

// FullName is "first last", the display name used in tracking and reports.
func (d *Driver) FullName() string {
	return strings.TrimSpace(d.contact.FirstName + " " + d.contact.LastName)
}

func (d *Driver) Phone() string {
	return d.contact.Phone
}

func (d *Driver) LastPoint() *kernel.GeoPoint {
	if d.lastPoint == nil {
		return nil
	}
	p := *d.lastPoint
	return &p
}

func (d *Driver) LastSeenAt() *time.Time {
	if d.lastSeenAt == nil {
		return nil
	}
	at := *d.lastSeenAt
	return &at
}

func (d *Driver) BelongsTo(tenantID kernel.UUID) bool {
	return d.tenantID.IsEqual(tenantID)
}

func (d *Driver) SetStatus(status DriverStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

// Assign puts the driver on duty for a load. Drivers on leave, terminated or
// deactivated cannot be assigned.
func (d *Driver) Assign() error {
	if !d.active {
		return errs.NewResourceConflictError("driver", d.FullName(), "is deactivated")
	}
	if !d.status.IsDispatchable() {
		return errs.NewResourceConflictError("driver", d.FullName(), fmt.Sprintf("is %s", d.status))
	}
	d.status = DriverOnDuty
	return nil
}

// Release moves an on-duty driver back to Available and reports whether the
// status changed.
func (d *Driver) Release() bool {
	if d.status != DriverOnDuty {
		return false
	}
	d.status = DriverAvailable
	return true
}

func (d *Driver) UpdateLocation(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("location timestamp")
	}
	if d.lastSeenAt != nil && at.Before(*d.lastSeenAt) {
		return nil
	}
	d.lastPoint = &point
	at = at.UTC()
	d.lastSeenAt = &at
	return nil
}

func (d *Driver) Deactivate() {
	d.active = false
}

func (d *Driver) setIDs(id, tenantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	d.id = id
	d.tenantID = tenantID
	return nil
}

func (d *Driver) setContact(c DriverContact) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.LicenseNumber = strings.TrimSpace(c.LicenseNumber)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)

	var problems []error
	if c.FirstName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("first name"))
	}
	if c.LastName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("last name"))
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("email", err))
		}
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}
	d.contact = c
	return nil
}
