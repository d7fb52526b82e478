package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
)

func TestGormUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := t.Context()
	db := postgrestest.NewSQLite(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)
	tenantID := kernel.NewUUID()

	committed := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, postgrestest.BaseTime, "1000"))
	rolledBack := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, postgrestest.BaseTime, "2000"))

	uow := factory.CreateGorm()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Begin(ctx), "a second Begin is a no-op")
	require.NoError(t, uow.LoadRepository().Add(ctx, committed))
	require.NoError(t, uow.Commit(ctx))

	tracked := uow.TrackedAggregates()
	require.Len(t, tracked, 1)
	assert.Equal(t, committed.ID(), tracked[0].ID)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.LoadRepository().Add(ctx, rolledBack))
	require.NoError(t, uow.Rollback(ctx))

	assert.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)
	assert.ErrorIs(t, uow.Commit(ctx), gorm.ErrInvalidTransaction)

	repo := factory.Create().LoadRepository()
	_, err := repo.Get(ctx, tenantID, committed.ID())
	require.NoError(t, err)
	_, err = repo.Get(ctx, tenantID, rolledBack.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormUnitOfWork_RepositoriesShareTransaction(t *testing.T) {
	ctx := t.Context()
	db := postgrestest.NewSQLite(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)
	tenantID := kernel.NewUUID()

	truck := postgrestest.NewTruck(t, tenantID, "T-1")
	driver := postgrestest.NewDriver(t, tenantID, "Ann", "Lee")
	shipper := postgrestest.NewCustomer(t, tenantID, "Acme", "")

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TruckRepository().Add(ctx, truck))
	require.NoError(t, uow.DriverRepository().Add(ctx, driver))
	require.NoError(t, uow.CustomerRepository().Add(ctx, shipper))
	require.NoError(t, uow.Rollback(ctx))

	fresh := factory.Create()
	_, err := fresh.TruckRepository().Get(ctx, tenantID, truck.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = fresh.DriverRepository().Get(ctx, tenantID, driver.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = fresh.CustomerRepository().Get(ctx, tenantID, shipper.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormReportSource_Snapshot(t *testing.T) {
	ctx := context.Background()
	db := postgrestest.NewSQLite(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)
	tenantID := kernel.NewUUID()

	truck := postgrestest.NewTruck(t, tenantID, "T-9")
	retired := postgrestest.NewTruck(t, tenantID, "T-0")
	retired.Deactivate()
	inWindow := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "1000"))
	outside := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "1000"))
	deleted := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "1000"))
	deleted.Deactivate(postgrestest.BaseTime)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TruckRepository().Add(ctx, truck))
	require.NoError(t, uow.TruckRepository().Add(ctx, retired))
	for _, l := range []*load.Load{inWindow, outside, deleted} {
		require.NoError(t, uow.LoadRepository().Add(ctx, l))
	}
	require.NoError(t, uow.Commit(ctx))

	window := services.MonthRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	ds, err := postgres.NewGormReportSource(db).Snapshot(ctx, tenantID, &window)
	require.NoError(t, err)

	require.Len(t, ds.Loads, 1)
	assert.Equal(t, inWindow.ID(), ds.Loads[0].ID())
	assert.Len(t, ds.Trucks, 2, "deactivated trucks keep their names in reports")

	ds, err = postgres.NewGormReportSource(db).Snapshot(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Len(t, ds.Loads, 2)
}

func TestGormReportSource_ActiveTenants(t *testing.T) {
	ctx := t.Context()
	db := postgrestest.NewSQLite(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)
	first, second, idle := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	deleted := postgrestest.NewLoad(t, idle, postgrestest.Details(t, postgrestest.BaseTime, "100"))
	deleted.Deactivate(postgrestest.BaseTime)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	for _, l := range []*load.Load{
		postgrestest.NewLoad(t, first, postgrestest.Details(t, postgrestest.BaseTime, "100")),
		postgrestest.NewLoad(t, first, postgrestest.Details(t, postgrestest.BaseTime, "200")),
		postgrestest.NewLoad(t, second, postgrestest.Details(t, postgrestest.BaseTime, "300")),
		deleted,
	} {
		require.NoError(t, uow.LoadRepository().Add(ctx, l))
	}
	require.NoError(t, uow.Commit(ctx))

	tenants, err := postgres.NewGormReportSource(db).ActiveTenants(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []kernel.UUID{first, second}, tenants)
}
