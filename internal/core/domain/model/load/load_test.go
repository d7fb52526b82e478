package load_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func money(s string) *kernel.Money {
	m := kernel.MustMoney(s)
	return &m
}

func newDetails(t *testing.T) load.Details {
	t.Helper()
	pickup, err := load.NewStop("pickup", load.Location{City: "Chicago", State: "il"}, baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	delivery, err := load.NewStop("delivery", load.Location{City: "Dallas", State: "TX"}, baseTime.Add(72*time.Hour))
	require.NoError(t, err)
	charges, err := rate.NewCharges(money("1500.00"), money("225.50"), money("75.25"), "usd")
	require.NoError(t, err)

	return load.Details{
		ReferenceNumber: " PO-7781 ",
		Cargo:           load.Cargo{Commodity: "Frozen food", Weight: 38000, Pallets: 22},
		Charges:         charges,
		Pickup:          pickup,
		Delivery:        delivery,
		Planning:        load.Planning{DistanceMiles: 925, EstimatedDurationHours: 16},
	}
}

func newLoad(t *testing.T) *load.Load {
	t.Helper()
	tenantID := kernel.NewUUID()
	number, err := load.NewLoadNumber(tenantID, baseTime)
	require.NoError(t, err)
	token, err := load.NewTrackingToken()
	require.NoError(t, err)

	l, err := load.NewLoad(kernel.NewUUID(), tenantID, number, token, newDetails(t), baseTime)
	require.NoError(t, err)
	return l
}

func TestNewLoad(t *testing.T) {
	t.Run("starts created and computes the total", func(t *testing.T) {
		l := newLoad(t)

		require.NoError(t, l.Validate())
		assert.Equal(t, load.Created, l.Status())
		assert.True(t, l.IsActive())
		assert.Equal(t, "1800.75", l.Charges().Total().String())
		assert.Equal(t, "USD", l.Charges().Currency())
		assert.Equal(t, "PO-7781", l.ReferenceNumber())
		assert.Equal(t, load.WeightUnitPounds, l.Cargo().WeightUnit)
		assert.Equal(t, "IL", l.Pickup().Location.State)
		assert.Nil(t, l.TruckID())
		assert.Nil(t, l.DispatchedAt())
	})

	t.Run("delivery before pickup", func(t *testing.T) {
		details := newDetails(t)
		details.Delivery.At = details.Pickup.At.Add(-time.Hour)

		_, err := load.NewLoad(kernel.NewUUID(), kernel.NewUUID(), "LD-1", "00112233445566778899aabbccddeeff", details, baseTime)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("missing stops and identity", func(t *testing.T) {
		_, err := load.NewLoad(kernel.UUID{}, kernel.NewUUID(), "", "nope", load.Details{}, baseTime)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "pickup")
		assert.Contains(t, err.Error(), "delivery")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var l load.Load
		assert.ErrorIs(t, l.Validate(), load.ErrLoadIsNotConstructed)
	})
}

func TestLoad_Dispatch(t *testing.T) {
	truckA, truckB := kernel.NewUUID(), kernel.NewUUID()
	driverA := kernel.NewUUID()

	t.Run("first dispatch stamps dispatchedAt", func(t *testing.T) {
		l := newLoad(t)
		now := baseTime.Add(time.Hour)

		a, err := l.Dispatch(&truckA, &driverA, now)
		require.NoError(t, err)

		assert.True(t, a.StatusChanged)
		assert.Equal(t, load.Dispatched, l.Status())
		assert.Nil(t, a.ReplacedTruck)
		assert.Nil(t, a.ReplacedDriver)
		require.NotNil(t, l.DispatchedAt())
		assert.Equal(t, now, *l.DispatchedAt())
		assert.True(t, l.TruckID().IsEqual(truckA))
		assert.True(t, l.DriverID().IsEqual(driverA))
	})

	t.Run("redispatch replaces the truck and keeps the stamp", func(t *testing.T) {
		l := newLoad(t)
		_, err := l.Dispatch(&truckA, &driverA, baseTime.Add(time.Hour))
		require.NoError(t, err)

		a, err := l.Dispatch(&truckB, nil, baseTime.Add(2*time.Hour))
		require.NoError(t, err)

		assert.False(t, a.StatusChanged)
		require.NotNil(t, a.ReplacedTruck)
		assert.True(t, a.ReplacedTruck.IsEqual(truckA))
		assert.Nil(t, a.ReplacedDriver)
		assert.True(t, l.TruckID().IsEqual(truckB))
		assert.True(t, l.DriverID().IsEqual(driverA))
		assert.Equal(t, baseTime.Add(time.Hour), *l.DispatchedAt())
	})

	t.Run("rejected once in transit", func(t *testing.T) {
		l := newLoad(t)
		_, _, err := l.ChangeStatus(load.InTransit, "", baseTime)
		require.NoError(t, err)

		_, err = l.Dispatch(&truckA, nil, baseTime)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, l.TruckID())
	})

	t.Run("rejected when deactivated", func(t *testing.T) {
		l := newLoad(t)
		require.True(t, l.Deactivate(baseTime))

		_, err := l.Dispatch(&truckA, nil, baseTime)
		assert.ErrorIs(t, err, load.ErrLoadIsDeactivated)
	})
}

func TestLoad_ChangeStatus(t *testing.T) {
	t.Run("full lifecycle stamps each timestamp once", func(t *testing.T) {
		l := newLoad(t)
		truck, driver := kernel.NewUUID(), kernel.NewUUID()
		_, err := l.Dispatch(&truck, &driver, baseTime)
		require.NoError(t, err)

		steps := []load.Status{load.EnRoute, load.AtPickup, load.PickedUp, load.InTransit, load.AtDelivery, load.Delivered}
		for i, status := range steps {
			_, changed, err := l.ChangeStatus(status, "", baseTime.Add(time.Duration(i+1)*time.Hour))
			require.NoError(t, err)
			assert.True(t, changed)
		}

		tr, changed, err := l.ChangeStatus(load.Completed, "", baseTime.Add(10*time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, tr.Has(load.ReleaseResources))

		assert.Equal(t, baseTime.Add(3*time.Hour), *l.PickedUpAt())
		assert.Equal(t, baseTime.Add(6*time.Hour), *l.DeliveredAt())
		assert.Nil(t, l.CancelledAt())
		assert.False(t, l.HoldsResources())
		assert.True(t, l.TruckID().IsEqual(truck))
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		l := newLoad(t)
		before := l.UpdatedAt()

		_, changed, err := l.ChangeStatus(load.Created, "", baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, before, l.UpdatedAt())
	})

	t.Run("cancel keeps the reason", func(t *testing.T) {
		l := newLoad(t)

		tr, changed, err := l.ChangeStatus(load.Cancelled, "  shipper cancelled ", baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, tr.Has(load.ReleaseResources))
		assert.Equal(t, "shipper cancelled", l.CancellationReason())
		require.NotNil(t, l.CancelledAt())
	})

	t.Run("backward move leaves the load untouched", func(t *testing.T) {
		l := newLoad(t)
		_, _, err := l.ChangeStatus(load.Delivered, "", baseTime)
		require.NoError(t, err)

		_, _, err = l.ChangeStatus(load.PickedUp, "", baseTime)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, load.Delivered, l.Status())
		assert.Nil(t, l.PickedUpAt())
	})
}

func TestLoad_Update(t *testing.T) {
	l := newLoad(t)
	details := l.Details()
	charges, err := rate.NewCharges(money("2000"), nil, money("10.10"), "")
	require.NoError(t, err)
	details.Charges = charges

	require.NoError(t, l.Update(details, baseTime.Add(time.Hour)))

	assert.Equal(t, "2010.10", l.Charges().Total().String())
	assert.Nil(t, l.Charges().FuelSurcharge())
	assert.Equal(t, baseTime.Add(time.Hour), l.UpdatedAt())
	assert.Equal(t, load.Created, l.Status())
}

func TestLoad_RecordPosition(t *testing.T) {
	l := newLoad(t)
	p1, _ := kernel.NewGeoPoint(41.88, -87.63)
	p2, _ := kernel.NewGeoPoint(39.1, -94.58)
	eta := baseTime.Add(48 * time.Hour)

	kept, err := l.RecordPosition(p2, baseTime.Add(2*time.Hour), &eta)
	require.NoError(t, err)
	assert.True(t, kept)
	kept, err = l.RecordPosition(p1, baseTime.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.False(t, kept)

	require.NotNil(t, l.LastPoint())
	assert.InDelta(t, 39.1, l.LastPoint().Lat(), 1e-9)
	assert.Equal(t, eta, *l.EstimatedArrival())

	_, err = l.RecordPosition(p1, time.Time{}, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	_, err = l.RecordPosition(kernel.GeoPoint{}, baseTime, nil)
	assert.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
}

func TestRestore(t *testing.T) {
	l := newLoad(t)
	truck := kernel.NewUUID()
	_, err := l.Dispatch(&truck, nil, baseTime)
	require.NoError(t, err)
	require.True(t, l.Deactivate(baseTime.Add(time.Minute)))

	restored, err := load.Restore(l.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, l.Snapshot(), restored.Snapshot())
	assert.False(t, restored.IsActive())
	assert.Equal(t, load.Dispatched, restored.Status())
	assert.False(t, restored.HoldsResources())
}
