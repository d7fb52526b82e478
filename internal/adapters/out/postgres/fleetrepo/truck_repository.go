package fleetrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormTruckRepository implements ports.TruckRepository using GORM.
type GormTruckRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormTruckRepository(db *gorm.DB, tracker aggregateTracker) *GormTruckRepository {
	return &GormTruckRepository{db: db, tracker: tracker}
}

// Add stores a new truck. A duplicate truck number in the tenant is a
// ResourceConflictError.
func (r *GormTruckRepository) Add(ctx context.Context, truck *fleet.Truck) error {
	if err := truck.Validate(); err != nil {
		return err
	}

	dto := truckFromDomain(truck)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dbutil.Translate(err, "truck", truck.Number())
	}

	r.track(truck.ID(), truck)
	return nil
}

func (r *GormTruckRepository) Update(ctx context.Context, truck *fleet.Truck) error {
	if err := truck.Validate(); err != nil {
		return err
	}

	dto := truckFromDomain(truck)
	result := r.db.WithContext(ctx).
		Model(&TruckDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").
		Omit("id", "tenant_id").
		Updates(&dto)
	if result.Error != nil {
		return dbutil.Translate(result.Error, "truck", truck.Number())
	}
	if result.RowsAffected == 0 {
		return dbutil.Translate(gorm.ErrRecordNotFound, "truck", truck.ID().String())
	}

	r.track(truck.ID(), truck)
	return nil
}

func (r *GormTruckRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Truck, error) {
	return r.get(ctx, r.db, tenantID, id)
}

func (r *GormTruckRepository) GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Truck, error) {
	return r.get(ctx, dbutil.ForUpdate(r.db), tenantID, id)
}

func (r *GormTruckRepository) get(ctx context.Context, db *gorm.DB, tenantID, id kernel.UUID) (*fleet.Truck, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto TruckDTO
	err := db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		First(&dto).Error
	if err != nil {
		return nil, dbutil.Translate(err, "truck", id.String())
	}
	return truckToDomain(dto)
}

// List returns the tenant's active trucks by truck number, optionally only
// those in status.
func (r *GormTruckRepository) List(ctx context.Context, tenantID kernel.UUID, status *fleet.TruckStatus) ([]*fleet.Truck, error) {
	return r.list(ctx, tenantID, true, status)
}

// ListAll includes deactivated trucks, for reports over historical loads.
func (r *GormTruckRepository) ListAll(ctx context.Context, tenantID kernel.UUID) ([]*fleet.Truck, error) {
	return r.list(ctx, tenantID, false, nil)
}

func (r *GormTruckRepository) list(ctx context.Context, tenantID kernel.UUID, activeOnly bool, status *fleet.TruckStatus) ([]*fleet.Truck, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID.Bytes())
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if status != nil {
		q = q.Where("status = ?", status.String())
	}

	var dtos []TruckDTO
	if err := q.Order("truck_number").Find(&dtos).Error; err != nil {
		return nil, err
	}

	trucks := make([]*fleet.Truck, 0, len(dtos))
	for _, dto := range dtos {
		v, err := truckToDomain(dto)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, v)
	}
	return trucks, nil
}

func (r *GormTruckRepository) track(id kernel.UUID, aggregate any) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(id, aggregate)
	}
}
