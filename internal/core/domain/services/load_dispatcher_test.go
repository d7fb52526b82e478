package services_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDispatcher_Dispatch(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	dispatcher := services.NewLoadDispatcher()

	t.Run("assigns truck and driver", func(t *testing.T) {
		l := newLoad(t, loadSpec{rate: "1000.00"})
		truck := newTruck(t, "T1")
		driver := newDriver(t, "Ana", "Lopez")

		result, err := dispatcher.Dispatch(l, truck, driver, services.Holders{}, now)

		require.NoError(t, err)
		assert.True(t, result.TruckAssigned)
		assert.True(t, result.DriverAssigned)
		assert.Equal(t, fleet.TruckAssigned, truck.Status())
		assert.Equal(t, fleet.DriverOnDuty, driver.Status())
		assert.Equal(t, load.Dispatched, l.Status())
		assert.Equal(t, now, *l.DispatchedAt())
	})

	t.Run("truck held by another load is a conflict", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		truck := newTruck(t, "T1")
		require.NoError(t, truck.Assign())

		_, err := dispatcher.Dispatch(l, truck, nil, services.Holders{Truck: []kernel.UUID{kernel.NewUUID()}}, now)

		require.ErrorIs(t, err, errs.ErrResourceConflict)
		assert.Equal(t, load.Created, l.Status())
		assert.Nil(t, l.TruckID())
	})

	t.Run("own hold is not a conflict", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		truck := newTruck(t, "T1")
		_, err := dispatcher.Dispatch(l, truck, nil, services.Holders{}, now)
		require.NoError(t, err)

		result, err := dispatcher.Dispatch(l, truck, nil, services.Holders{Truck: []kernel.UUID{l.ID()}}, now)

		require.NoError(t, err)
		assert.False(t, result.TruckAssigned)
		assert.False(t, result.Assignment.StatusChanged)
	})

	t.Run("maintenance truck is a conflict and the driver stays untouched", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		truck := newTruck(t, "T1")
		require.NoError(t, truck.SetStatus(fleet.TruckMaintenance))
		driver := newDriver(t, "Ana", "Lopez")

		_, err := dispatcher.Dispatch(l, truck, driver, services.Holders{}, now)

		require.ErrorIs(t, err, errs.ErrResourceConflict)
		assert.Equal(t, fleet.DriverAvailable, driver.Status())
	})

	t.Run("terminated driver is a conflict", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		driver := newDriver(t, "Ana", "Lopez")
		require.NoError(t, driver.SetStatus(fleet.DriverTerminated))

		_, err := dispatcher.Dispatch(l, nil, driver, services.Holders{}, now)
		assert.ErrorIs(t, err, errs.ErrResourceConflict)
	})

	t.Run("truck of another tenant is not found", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		foreign, err := fleet.NewTruck(kernel.NewUUID(), kernel.NewUUID(), "X9", fleet.Reefer, fleet.TruckSpec{})
		require.NoError(t, err)

		_, err = dispatcher.Dispatch(l, foreign, nil, services.Holders{}, now)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("terminal load is invalid", func(t *testing.T) {
		l := newLoad(t, loadSpec{})
		_, _, err := l.ChangeStatus(load.Cancelled, "", now)
		require.NoError(t, err)
		truck := newTruck(t, "T1")

		_, err = dispatcher.Dispatch(l, truck, nil, services.Holders{}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, fleet.TruckAvailable, truck.Status())
	})
}

func TestLoadDispatcher_Release(t *testing.T) {
	dispatcher := services.NewLoadDispatcher()
	loadID := kernel.NewUUID()

	t.Run("releases when only this load holds it", func(t *testing.T) {
		truck := newTruck(t, "T1")
		require.NoError(t, truck.Assign())

		assert.True(t, dispatcher.ReleaseTruck(loadID, truck, []kernel.UUID{loadID}))
		assert.Equal(t, fleet.TruckAvailable, truck.Status())
	})

	t.Run("keeps a truck another load holds", func(t *testing.T) {
		truck := newTruck(t, "T1")
		require.NoError(t, truck.Assign())

		assert.False(t, dispatcher.ReleaseTruck(loadID, truck, []kernel.UUID{kernel.NewUUID()}))
		assert.Equal(t, fleet.TruckAssigned, truck.Status())
	})

	t.Run("keeps a manual status", func(t *testing.T) {
		truck := newTruck(t, "T1")
		require.NoError(t, truck.SetStatus(fleet.TruckMaintenance))

		assert.False(t, dispatcher.ReleaseTruck(loadID, truck, nil))
		assert.Equal(t, fleet.TruckMaintenance, truck.Status())
	})

	t.Run("driver goes back to available", func(t *testing.T) {
		driver := newDriver(t, "Ana", "Lopez")
		require.NoError(t, driver.Assign())

		assert.True(t, dispatcher.ReleaseDriver(loadID, driver, nil))
		assert.Equal(t, fleet.DriverAvailable, driver.Status())
	})

	t.Run("nil resource", func(t *testing.T) {
		assert.False(t, dispatcher.ReleaseTruck(loadID, nil, nil))
		assert.False(t, dispatcher.ReleaseDriver(loadID, nil, nil))
	})
}
