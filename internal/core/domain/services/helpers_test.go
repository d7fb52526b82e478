package services_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"

	"github.com/stretchr/testify/require"
)

var tenantID = kernel.MustUUIDFromString("7d3c5a1e-2b4f-4c6d-8e9f-0a1b2c3d4e5f")

type loadSpec struct {
	pickup time.Time
	rate   string
	eta    *time.Time
}

func newLoad(t *testing.T, spec loadSpec) *load.Load {
	t.Helper()
	if spec.pickup.IsZero() {
		spec.pickup = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	}
	pickup, err := load.NewStop("pickup", load.Location{City: "Memphis", State: "TN"}, spec.pickup)
	require.NoError(t, err)
	delivery, err := load.NewStop("delivery", load.Location{City: "Atlanta", State: "GA"}, spec.pickup.Add(30*time.Hour))
	require.NoError(t, err)

	var ratePart *kernel.Money
	if spec.rate != "" {
		m := kernel.MustMoney(spec.rate)
		ratePart = &m
	}
	charges, err := rate.NewCharges(ratePart, nil, nil, "")
	require.NoError(t, err)

	token, err := load.NewTrackingToken()
	require.NoError(t, err)
	number, err := load.NewLoadNumber(tenantID, spec.pickup)
	require.NoError(t, err)

	l, err := load.NewLoad(kernel.NewUUID(), tenantID, number, token, load.Details{
		ReferenceNumber:  "REF-1",
		Charges:          charges,
		Pickup:           pickup,
		Delivery:         delivery,
		EstimatedArrival: spec.eta,
	}, spec.pickup.Add(-48*time.Hour))
	require.NoError(t, err)
	return l
}

func newTruck(t *testing.T, number string) *fleet.Truck {
	t.Helper()
	truck, err := fleet.NewTruck(kernel.NewUUID(), tenantID, number, fleet.DryVan, fleet.TruckSpec{})
	require.NoError(t, err)
	return truck
}

func newDriver(t *testing.T, first, last string) *fleet.Driver {
	t.Helper()
	driver, err := fleet.NewDriver(kernel.NewUUID(), tenantID, fleet.DriverContact{
		FirstName: first,
		LastName:  last,
		Phone:     "+1 555 0100",
	})
	require.NoError(t, err)
	return driver
}

func newCustomer(t *testing.T, name, email string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(kernel.NewUUID(), tenantID, customer.Contact{CompanyName: name, Email: email}, true)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T {
	return &v
}
