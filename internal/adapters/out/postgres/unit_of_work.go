// Package postgres provides the GORM-based Unit of Work and the database
// bootstrap shared by the repositories.
//
// A unit of work wraps one transaction. Repositories obtained from it after
// Begin run inside that transaction; before Begin they use the pool directly.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	l, err := uow.LoadRepository().GetForUpdate(ctx, tenantID, loadID)
//	// ... mutate, then
//	if err := uow.LoadRepository().Update(ctx, l); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// On PostgreSQL every transaction sets a lock_timeout so that a blocked row
// lock surfaces as a ResourceConflictError instead of hanging the request.
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/customerrepo"
	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/adapters/out/postgres/fleetrepo"
	"freight/internal/adapters/out/postgres/historyrepo"
	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
)

// DefaultLockTimeout bounds how long a transaction waits for a row lock.
const DefaultLockTimeout = 5 * time.Second

// TrackedAggregate is an aggregate added or updated through the unit of work.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one *gorm.DB.
type GormUnitOfWorkFactory struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// FactoryOption customizes a GormUnitOfWorkFactory.
type FactoryOption func(*GormUnitOfWorkFactory)

// WithLockTimeout overrides DefaultLockTimeout. Zero disables the setting.
func WithLockTimeout(d time.Duration) FactoryOption {
	return func(f *GormUnitOfWorkFactory) {
		f.lockTimeout = d
	}
}

func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...FactoryOption) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{db: db, lockTimeout: DefaultLockTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a fresh unit of work. Instances are not safe for concurrent
// use; every command gets its own.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create with the concrete type, for callers that need the
// tracked aggregates.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:          f.db,
		lockTimeout: f.lockTimeout,
	}
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	lockTimeout       time.Duration
	trackedAggregates []TrackedAggregate
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if uow.lockTimeout > 0 && dbutil.IsPostgres(uow.db) {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", uow.lockTimeout.Milliseconds())
		if err := tx.Exec(stmt).Error; err != nil {
			_ = tx.Rollback().Error
			return err
		}
	}

	uow.tx = tx
	uow.trackedAggregates = nil
	return nil
}

// Commit ends the transaction. Commit failures caused by lock contention or
// serialization are returned as ResourceConflictError.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil && dbutil.IsContention(err) {
		return dbutil.Translate(err, "transaction", "")
	}
	return err
}

// Rollback discards the transaction. Without one it returns
// gorm.ErrInvalidTransaction, which deferred callers ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) LoadRepository() ports.LoadRepository {
	return loadrepo.NewGormLoadRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TruckRepository() ports.TruckRepository {
	return fleetrepo.NewGormTruckRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return fleetrepo.NewGormDriverRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LoadHistoryRepository() ports.LoadHistoryRepository {
	return historyrepo.NewGormHistoryRepository(uow.conn())
}

// TrackAggregate is called by the repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, TrackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the aggregates written since the last Begin.
func (uow *GormUnitOfWork) TrackedAggregates() []TrackedAggregate {
	out := make([]TrackedAggregate, len(uow.trackedAggregates))
	copy(out, uow.trackedAggregates)
	return out
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
