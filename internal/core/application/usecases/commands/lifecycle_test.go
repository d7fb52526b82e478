package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

type loadUoWs struct{ f *postgres.GormUnitOfWorkFactory }

func (w loadUoWs) Create() commands.LoadUoW { return w.f.Create() }

type registryUoWs struct{ f *postgres.GormUnitOfWorkFactory }

func (w registryUoWs) Create() commands.RegistryUoW { return w.f.Create() }

type customerUoWs struct{ f *postgres.GormUnitOfWorkFactory }

func (w customerUoWs) Create() commands.CustomerUoW { return w.f.Create() }

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []load.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...load.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []load.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]load.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// LoadLifecycleTestSuite drives the command handlers against an in-memory
// database.
type LoadLifecycleTestSuite struct {
	suite.Suite
	ctx       context.Context
	factory   *postgres.GormUnitOfWorkFactory
	publisher *recordingPublisher
	tenantID  kernel.UUID

	createTruck    commands.CreateTruckCommandHandler
	createDriver   commands.CreateDriverCommandHandler
	createCustomer commands.CreateCustomerCommandHandler
	createLoad     commands.CreateLoadCommandHandler
	dispatch       commands.DispatchLoadCommandHandler
	changeStatus   commands.UpdateLoadStatusCommandHandler
	deleteLoad     commands.DeleteLoadCommandHandler
	setStatus      commands.SetResourceStatusCommandHandler
	updateLocation commands.UpdateLoadLocationCommandHandler
}

func TestLoadLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LoadLifecycleTestSuite))
}

func (suite *LoadLifecycleTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.factory = postgres.NewGormUnitOfWorkFactory(postgrestest.NewSQLite(suite.T()))
	suite.publisher = &recordingPublisher{}
	suite.tenantID = kernel.NewUUID()

	locker := keylock.New(time.Second)
	clock := ports.FixedClock(postgrestest.BaseTime.Add(time.Hour))
	loads := loadUoWs{suite.factory}
	registry := registryUoWs{suite.factory}

	suite.createTruck = commands.NewCreateTruckCommandHandler(registry)
	suite.createDriver = commands.NewCreateDriverCommandHandler(registry)
	suite.createCustomer = commands.NewCreateCustomerCommandHandler(customerUoWs{suite.factory})
	suite.createLoad = commands.NewCreateLoadCommandHandler(loads, clock, suite.publisher, nil)
	suite.dispatch = commands.NewDispatchLoadCommandHandler(loads, locker, clock, suite.publisher, nil)
	suite.changeStatus = commands.NewUpdateLoadStatusCommandHandler(loads, locker, clock, suite.publisher, nil)
	suite.deleteLoad = commands.NewDeleteLoadCommandHandler(loads, locker, clock, suite.publisher, nil)
	suite.setStatus = commands.NewSetResourceStatusCommandHandler(registry, locker)
	suite.updateLocation = commands.NewUpdateLoadLocationCommandHandler(loads, locker, suite.publisher, nil)
}

func (suite *LoadLifecycleTestSuite) newTruck(number string) *fleet.Truck {
	cmd, err := commands.NewCreateTruckCommand(suite.tenantID, number, "", fleet.TruckSpec{})
	suite.Require().NoError(err)
	truck, err := suite.createTruck.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	return truck
}

func (suite *LoadLifecycleTestSuite) newDriver(first, last string) *fleet.Driver {
	cmd, err := commands.NewCreateDriverCommand(suite.tenantID, fleet.DriverContact{FirstName: first, LastName: last})
	suite.Require().NoError(err)
	driver, err := suite.createDriver.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	return driver
}

func (suite *LoadLifecycleTestSuite) newCustomer() *customer.Customer {
	cmd, err := commands.NewCreateCustomerCommand(suite.tenantID, customer.Contact{CompanyName: "Acme", Email: "ops@acme.example"}, true)
	suite.Require().NoError(err)
	c, err := suite.createCustomer.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	return c
}

func (suite *LoadLifecycleTestSuite) newLoad(customerID *kernel.UUID) *load.Load {
	details := postgrestest.Details(suite.T(), postgrestest.BaseTime.Add(24*time.Hour), "1000")
	details.CustomerID = customerID
	cmd, err := commands.NewCreateLoadCommand(suite.tenantID, details)
	suite.Require().NoError(err)
	l, err := suite.createLoad.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	return l
}

func (suite *LoadLifecycleTestSuite) dispatchLoad(l *load.Load, truckID, driverID *kernel.UUID) (*load.Load, error) {
	cmd, err := commands.NewDispatchLoadCommand(suite.tenantID, l.ID(), truckID, driverID)
	suite.Require().NoError(err)
	return suite.dispatch.Handle(suite.ctx, cmd)
}

func (suite *LoadLifecycleTestSuite) moveTo(l *load.Load, status string) *load.Load {
	cmd, err := commands.NewUpdateLoadStatusCommand(suite.tenantID, l.ID(), status, "")
	suite.Require().NoError(err)
	updated, err := suite.changeStatus.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	return updated
}

func (suite *LoadLifecycleTestSuite) truckStatus(id kernel.UUID) fleet.TruckStatus {
	truck, err := suite.factory.Create().TruckRepository().Get(suite.ctx, suite.tenantID, id)
	suite.Require().NoError(err)
	return truck.Status()
}

func (suite *LoadLifecycleTestSuite) driverStatus(id kernel.UUID) fleet.DriverStatus {
	driver, err := suite.factory.Create().DriverRepository().Get(suite.ctx, suite.tenantID, id)
	suite.Require().NoError(err)
	return driver.Status()
}

func (suite *LoadLifecycleTestSuite) TestEndToEnd() {
	shipper := suite.newCustomer()
	truck := suite.newTruck("T-1")
	driver := suite.newDriver("Ann", "Lee")
	customerID := shipper.ID()
	truckID, driverID := truck.ID(), driver.ID()

	first := suite.newLoad(&customerID)
	suite.Equal(load.Created, first.Status())
	suite.Equal("1150.00", first.Charges().Total().String())

	dispatched, err := suite.dispatchLoad(first, &truckID, &driverID)
	suite.Require().NoError(err)
	suite.Equal(load.Dispatched, dispatched.Status())
	suite.NotNil(dispatched.DispatchedAt())
	suite.Equal(fleet.TruckAssigned, suite.truckStatus(truckID))
	suite.Equal(fleet.DriverOnDuty, suite.driverStatus(driverID))

	second := suite.newLoad(nil)
	_, err = suite.dispatchLoad(second, &truckID, nil)
	suite.ErrorIs(err, errs.ErrResourceConflict, "a held truck cannot be dispatched twice")

	suite.moveTo(first, "IN_TRANSIT")
	suite.Equal(fleet.TruckAssigned, suite.truckStatus(truckID))
	delivered := suite.moveTo(first, "DELIVERED")
	suite.NotNil(delivered.DeliveredAt())

	completed := suite.moveTo(first, "COMPLETED")
	suite.Equal(load.Completed, completed.Status())
	suite.Equal(fleet.TruckAvailable, suite.truckStatus(truckID))
	suite.Equal(fleet.DriverAvailable, suite.driverStatus(driverID))
	suite.Require().NotNil(completed.TruckID(), "the load keeps its resource references")

	_, err = suite.dispatchLoad(second, &truckID, &driverID)
	suite.Require().NoError(err, "released resources can be dispatched again")

	suite.Equal([]load.EventType{
		load.EventCreated,
		load.EventDispatched,
		load.EventCreated,
		load.EventStatusChanged,
		load.EventStatusChanged,
		load.EventStatusChanged,
		load.EventDispatched,
	}, suite.publisher.types())
}

func (suite *LoadLifecycleTestSuite) TestBackwardTransitionIsRejected() {
	l := suite.newLoad(nil)
	suite.moveTo(l, "IN_TRANSIT")

	cmd, err := commands.NewUpdateLoadStatusCommand(suite.tenantID, l.ID(), "BOOKED", "")
	suite.Require().NoError(err)
	_, err = suite.changeStatus.Handle(suite.ctx, cmd)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *LoadLifecycleTestSuite) TestSameStatusIsNoOp() {
	l := suite.newLoad(nil)
	before := len(suite.publisher.types())

	same := suite.moveTo(l, "CREATED")
	suite.Equal(load.Created, same.Status())
	suite.Len(suite.publisher.types(), before)
}

func (suite *LoadLifecycleTestSuite) TestCancelReleasesResources() {
	truck := suite.newTruck("T-2")
	driver := suite.newDriver("Bo", "Diaz")
	truckID, driverID := truck.ID(), driver.ID()
	l := suite.newLoad(nil)
	_, err := suite.dispatchLoad(l, &truckID, &driverID)
	suite.Require().NoError(err)

	cmd, err := commands.NewUpdateLoadStatusCommand(suite.tenantID, l.ID(), "cancelled", "weather")
	suite.Require().NoError(err)
	cancelled, err := suite.changeStatus.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)

	suite.Equal("weather", cancelled.CancellationReason())
	suite.Equal(fleet.TruckAvailable, suite.truckStatus(truckID))
	suite.Equal(fleet.DriverAvailable, suite.driverStatus(driverID))
}

func (suite *LoadLifecycleTestSuite) TestManualStatusSurvivesRelease() {
	truck := suite.newTruck("T-3")
	truckID := truck.ID()
	l := suite.newLoad(nil)
	_, err := suite.dispatchLoad(l, &truckID, nil)
	suite.Require().NoError(err)

	cmd, err := commands.NewSetTruckStatusCommand(suite.tenantID, truckID, "MAINTENANCE")
	suite.Require().NoError(err)
	state, err := suite.setStatus.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal("MAINTENANCE", state.Status)

	suite.moveTo(l, "COMPLETED")
	suite.Equal(fleet.TruckMaintenance, suite.truckStatus(truckID))
}

func (suite *LoadLifecycleTestSuite) TestConcurrentDispatchOfOneTruck() {
	truck := suite.newTruck("T-4")
	truckID := truck.ID()
	loads := []*load.Load{suite.newLoad(nil), suite.newLoad(nil)}

	var wg sync.WaitGroup
	results := make([]error, len(loads))
	for i, l := range loads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewDispatchLoadCommand(suite.tenantID, l.ID(), &truckID, nil)
			if err != nil {
				results[i] = err
				return
			}
			_, results[i] = suite.dispatch.Handle(suite.ctx, cmd)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, errs.ErrResourceConflict)
	}
	suite.Equal(1, succeeded)

	holders, err := suite.factory.Create().LoadRepository().ActiveHolders(suite.ctx, suite.tenantID, ports.ResourceTruck, truckID)
	suite.Require().NoError(err)
	suite.Len(holders, 1)
}

func (suite *LoadLifecycleTestSuite) TestSoftDelete() {
	truck := suite.newTruck("T-5")
	truckID := truck.ID()
	l := suite.newLoad(nil)
	_, err := suite.dispatchLoad(l, &truckID, nil)
	suite.Require().NoError(err)

	cmd, err := commands.NewDeleteLoadCommand(suite.tenantID, l.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deleteLoad.Handle(suite.ctx, cmd))
	suite.Require().NoError(suite.deleteLoad.Handle(suite.ctx, cmd), "deleting twice is a no-op")

	suite.Equal(fleet.TruckAvailable, suite.truckStatus(truckID))

	list, err := suite.factory.Create().LoadRepository().List(suite.ctx, suite.tenantID, ports.LoadFilter{})
	suite.Require().NoError(err)
	suite.Empty(list)

	_, err = suite.dispatchLoad(l, &truckID, nil)
	suite.ErrorIs(err, load.ErrLoadIsDeactivated)
}

func (suite *LoadLifecycleTestSuite) TestUpdateLocationIgnoresStaleReports() {
	l := suite.newLoad(nil)
	point, err := kernel.NewGeoPoint(41.0, -96.0)
	suite.Require().NoError(err)
	older, err := kernel.NewGeoPoint(40.0, -95.0)
	suite.Require().NoError(err)
	at := postgrestest.BaseTime.Add(2 * time.Hour)

	cmd, err := commands.NewUpdateLoadLocationCommand(suite.tenantID, l.ID(), point, at, nil)
	suite.Require().NoError(err)
	_, err = suite.updateLocation.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)

	cmd, err = commands.NewUpdateLoadLocationCommand(suite.tenantID, l.ID(), older, at.Add(-time.Hour), nil)
	suite.Require().NoError(err)
	got, err := suite.updateLocation.Handle(suite.ctx, cmd)
	suite.Require().NoError(err)

	suite.Require().NotNil(got.LastPoint())
	suite.InDelta(41.0, got.LastPoint().Lat(), 1e-9)
}

func (suite *LoadLifecycleTestSuite) TestOtherTenantCannotSeeLoad() {
	l := suite.newLoad(nil)

	cmd, err := commands.NewUpdateLoadStatusCommand(kernel.NewUUID(), l.ID(), "BOOKED", "")
	suite.Require().NoError(err)
	_, err = suite.changeStatus.Handle(suite.ctx, cmd)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}
