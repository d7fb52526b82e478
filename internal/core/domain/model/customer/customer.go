// Package customer holds the shipper records loads are booked for.
package customer

import (
	"errors"
	"net/mail"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer or RestoreCustomer")

// Contact carries the customer's contact fields.
type Contact struct {
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
}

// Customer is a shipper owned by one tenant. Its email is the secret a public
// tracking visitor must know to verify a load.
type Customer struct {
	id                    kernel.UUID
	tenantID              kernel.UUID
	contact               Contact
	trackingPortalEnabled bool
	active                bool
	constructed           bool
}

// NewCustomer validates the company name and, when present, the email.
func NewCustomer(id, tenantID kernel.UUID, contact Contact, trackingPortalEnabled bool) (*Customer, error) {
	c := &Customer{
		trackingPortalEnabled: trackingPortalEnabled,
		active:                true,
		constructed:           true,
	}
	if err := errors.Join(c.setIDs(id, tenantID), c.setContact(contact)); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshot is the persisted state of a customer.
type Snapshot struct {
	ID                    kernel.UUID
	TenantID              kernel.UUID
	Contact               Contact
	TrackingPortalEnabled bool
	Active                bool
}

func RestoreCustomer(s Snapshot) (*Customer, error) {
	c, err := NewCustomer(s.ID, s.TenantID, s.Contact, s.TrackingPortalEnabled)
	if err != nil {
		return nil, err
	}
	c.active = s.Active
	return c, nil
}

func (c *Customer) Snapshot() Snapshot {
	return Snapshot{
		ID:                    c.id,
		TenantID:              c.tenantID,
		Contact:               c.contact,
		TrackingPortalEnabled: c.trackingPortalEnabled,
		Active:                c.active,
	}
}

func (c *Customer) Validate() error {
	if c == nil || !c.constructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

func (c *Customer) ID() kernel.UUID { return c.id }
func (c *Customer) TenantID() kernel.UUID { return c.tenantID }
func (c *Customer) Contact() Contact { return c.contact }
func (c *Customer) DisplayName() string { return c.contact.CompanyName }
func (c *Customer) Email() string { return c.contact.Email }
func (c *Customer) TrackingPortalEnabled() bool { return c.trackingPortalEnabled }
func (c *Customer) IsActive() bool { return c.active }

func (c *Customer) BelongsTo(tenantID kernel.UUID) bool {
	return c.tenantID.IsEqual(tenantID)
}

// EmailMatches compares email to the customer's address case-insensitively,
// ignoring surrounding whitespace. A customer without an email never matches.
func (c *Customer) EmailMatches(email string) bool {
	own := strings.TrimSpace(c.contact.Email)
	candidate := strings.TrimSpace(email)
	if own == "" || candidate == "" {
		return false
	}
	return strings.EqualFold(own, candidate)
}

func (c *Customer) setIDs(id, tenantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return err
	}
	c.id = id
	c.tenantID = tenantID
	return nil
}

func (c *Customer) setContact(contact Contact) error {
	contact.CompanyName = strings.TrimSpace(contact.CompanyName)
	contact.ContactPerson = strings.TrimSpace(contact.ContactPerson)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)

	if contact.CompanyName == "" {
		return errs.NewValueIsRequiredError("company name")
	}
	if contact.Email != "" {
		if _, err := mail.ParseAddress(contact.Email); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("email", err)
		}
	}
	c.contact = contact
	return nil
}
