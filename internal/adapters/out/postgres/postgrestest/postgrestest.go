// Package postgrestest provides an in-memory database and aggregate fixtures
// for tests of the persistence layer and the code built on it.
package postgrestest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres"
	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"
)

// BaseTime is the creation time of fixture loads.
var BaseTime = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// NewSQLite opens a migrated in-memory SQLite database private to t.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := postgres.Open(postgres.Options{
		Driver: postgres.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", kernel.NewUUID().String()),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		_ = postgres.Close(db)
	})
	return db
}

// Details returns valid load details with a pickup at pickupAt and delivery two
// days later, billed rateAmount + 10% fuel + 50.00 accessorials.
func Details(t testing.TB, pickupAt time.Time, rateAmount string) load.Details {
	t.Helper()

	pickup, err := load.NewStop("pickup", load.Location{City: "Chicago", State: "IL"}, pickupAt)
	require.NoError(t, err)
	delivery, err := load.NewStop("delivery", load.Location{City: "Dallas", State: "TX"}, pickupAt.Add(48*time.Hour))
	require.NoError(t, err)

	base := kernel.MustMoney(rateAmount)
	fuel := kernel.NewMoneyFromDecimal(base.Decimal.Shift(-1))
	accessorials := kernel.MustMoney("50.00")
	charges, err := rate.NewCharges(&base, &fuel, &accessorials, "USD")
	require.NoError(t, err)

	return load.Details{
		Cargo:    load.Cargo{Commodity: "Steel coils", Weight: 42000},
		Charges:  charges,
		Pickup:   pickup,
		Delivery: delivery,
	}
}

// NewLoad builds an unsaved load of tenantID.
func NewLoad(t testing.TB, tenantID kernel.UUID, details load.Details) *load.Load {
	t.Helper()

	number, err := load.NewLoadNumber(tenantID, BaseTime)
	require.NoError(t, err)
	token, err := load.NewTrackingToken()
	require.NoError(t, err)

	l, err := load.NewLoad(kernel.NewUUID(), tenantID, number, token, details, BaseTime)
	require.NoError(t, err)
	return l
}

// NewTruck builds an unsaved available truck.
func NewTruck(t testing.TB, tenantID kernel.UUID, number string) *fleet.Truck {
	t.Helper()

	truck, err := fleet.NewTruck(kernel.NewUUID(), tenantID, number, fleet.DryVan, fleet.TruckSpec{Make: "Volvo", Year: 2021})
	require.NoError(t, err)
	return truck
}

// NewDriver builds an unsaved available driver.
func NewDriver(t testing.TB, tenantID kernel.UUID, first, last string) *fleet.Driver {
	t.Helper()

	driver, err := fleet.NewDriver(kernel.NewUUID(), tenantID, fleet.DriverContact{FirstName: first, LastName: last})
	require.NoError(t, err)
	return driver
}

// NewCustomer builds an unsaved customer with the tracking portal enabled.
func NewCustomer(t testing.TB, tenantID kernel.UUID, company, email string) *customer.Customer {
	t.Helper()

	c, err := customer.NewCustomer(kernel.NewUUID(), tenantID, customer.Contact{CompanyName: company, Email: email}, true)
	require.NoError(t, err)
	return c
}
