package fleetrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{db: db, tracker: tracker}
}

func (r *GormDriverRepository) Add(ctx context.Context, driver *fleet.Driver) error {
	if err := driver.Validate(); err != nil {
		return err
	}

	dto := driverFromDomain(driver)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dbutil.Translate(err, "driver", driver.FullName())
	}

	r.track(driver.ID(), driver)
	return nil
}

func (r *GormDriverRepository) Update(ctx context.Context, driver *fleet.Driver) error {
	if err := driver.Validate(); err != nil {
		return err
	}

	dto := driverFromDomain(driver)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").
		Omit("id", "tenant_id").
		Updates(&dto)
	if result.Error != nil {
		return dbutil.Translate(result.Error, "driver", driver.FullName())
	}
	if result.RowsAffected == 0 {
		return dbutil.Translate(gorm.ErrRecordNotFound, "driver", driver.ID().String())
	}

	r.track(driver.ID(), driver)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Driver, error) {
	return r.get(ctx, r.db, tenantID, id)
}

func (r *GormDriverRepository) GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Driver, error) {
	return r.get(ctx, dbutil.ForUpdate(r.db), tenantID, id)
}

func (r *GormDriverRepository) get(ctx context.Context, db *gorm.DB, tenantID, id kernel.UUID) (*fleet.Driver, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto DriverDTO
	err := db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		First(&dto).Error
	if err != nil {
		return nil, dbutil.Translate(err, "driver", id.String())
	}
	return driverToDomain(dto)
}

// List returns the tenant's active drivers by last then first name.
func (r *GormDriverRepository) List(ctx context.Context, tenantID kernel.UUID, status *fleet.DriverStatus) ([]*fleet.Driver, error) {
	return r.list(ctx, tenantID, true, status)
}

// ListAll includes deactivated drivers, for reports over historical loads.
func (r *GormDriverRepository) ListAll(ctx context.Context, tenantID kernel.UUID) ([]*fleet.Driver, error) {
	return r.list(ctx, tenantID, false, nil)
}

func (r *GormDriverRepository) list(ctx context.Context, tenantID kernel.UUID, activeOnly bool, status *fleet.DriverStatus) ([]*fleet.Driver, error) {
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

	var dtos []DriverDTO
	if err := q.Order("last_name").Order("first_name").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*fleet.Driver, 0, len(dtos))
	for _, dto := range dtos {
		v, err := driverToDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, v)
	}
	return drivers, nil
}

func (r *GormDriverRepository) track(id kernel.UUID, aggregate any) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(id, aggregate)
	}
}
