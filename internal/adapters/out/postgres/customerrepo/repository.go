// Package customerrepo persists shippers.
package customerrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/kernel"
)

type CustomerDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID              uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyName           string    `gorm:"not null"`
	ContactPerson         string
	Email                 string
	Phone                 string `gorm:"size:32"`
	TrackingPortalEnabled bool   `gorm:"not null"`
	Active                bool   `gorm:"not null;index"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCustomerRepository(db *gorm.DB, tracker aggregateTracker) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, tracker: tracker}
}

func (r *GormCustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dbutil.Translate(err, "customer", c.DisplayName())
	}

	if r.tracker != nil {
		r.tracker.TrackAggregate(c.ID(), c)
	}
	return nil
}

// Get returns the customer whether or not it is active.
func (r *GormCustomerRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*customer.Customer, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto CustomerDTO
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		First(&dto).Error
	if err != nil {
		return nil, dbutil.Translate(err, "customer", id.String())
	}
	return toDomain(dto)
}

// List returns the tenant's active customers by company name.
func (r *GormCustomerRepository) List(ctx context.Context, tenantID kernel.UUID) ([]*customer.Customer, error) {
	return r.list(ctx, tenantID, true)
}

// ListAll includes deactivated customers.
func (r *GormCustomerRepository) ListAll(ctx context.Context, tenantID kernel.UUID) ([]*customer.Customer, error) {
	return r.list(ctx, tenantID, false)
}

func (r *GormCustomerRepository) list(ctx context.Context, tenantID kernel.UUID, activeOnly bool) ([]*customer.Customer, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID.Bytes())
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var dtos []CustomerDTO
	if err := q.Order("company_name").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func fromDomain(c *customer.Customer) CustomerDTO {
	s := c.Snapshot()
	return CustomerDTO{
		ID:                    s.ID.Bytes(),
		TenantID:              s.TenantID.Bytes(),
		CompanyName:           s.Contact.CompanyName,
		ContactPerson:         s.Contact.ContactPerson,
		Email:                 s.Contact.Email,
		Phone:                 s.Contact.Phone,
		TrackingPortalEnabled: s.TrackingPortalEnabled,
		Active:                s.Active,
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(customer.Snapshot{
		ID:       id,
		TenantID: tenantID,
		Contact: customer.Contact{
			CompanyName:   dto.CompanyName,
			ContactPerson: dto.ContactPerson,
			Email:         dto.Email,
			Phone:         dto.Phone,
		},
		TrackingPortalEnabled: dto.TrackingPortalEnabled,
		Active:                dto.Active,
	})
}
