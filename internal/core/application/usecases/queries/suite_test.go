package queries_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// dbSuite is embedded by the suites that read an in-memory database.
type dbSuite struct {
	suite.Suite
	db       *gorm.DB
	factory  *postgres.GormUnitOfWorkFactory
	tenantID kernel.UUID
}

func (s *dbSuite) SetupTest() {
	s.db = postgrestest.NewSQLite(s.T())
	s.factory = postgres.NewGormUnitOfWorkFactory(s.db)
	s.tenantID = kernel.NewUUID()
}

// seed stores aggregates in one transaction.
func (s *dbSuite) seed(aggregates ...any) {
	ctx := s.T().Context()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	for _, a := range aggregates {
		switch v := a.(type) {
		case *load.Load:
			s.Require().NoError(uow.LoadRepository().Add(ctx, v))
		case *fleet.Truck:
			s.Require().NoError(uow.TruckRepository().Add(ctx, v))
		case *fleet.Driver:
			s.Require().NoError(uow.DriverRepository().Add(ctx, v))
		case *customer.Customer:
			s.Require().NoError(uow.CustomerRepository().Add(ctx, v))
		case load.Event:
			s.Require().NoError(uow.LoadHistoryRepository().Append(ctx, v))
		default:
			s.FailNow("unsupported fixture", "%T", a)
		}
	}
	s.Require().NoError(uow.Commit(ctx))
}

func (s *dbSuite) newLoad(pickupAt time.Time, rateAmount string) *load.Load {
	return postgrestest.NewLoad(s.T(), s.tenantID, postgrestest.Details(s.T(), pickupAt, rateAmount))
}

// newLoadFor builds a load booked for c.
func (s *dbSuite) newLoadFor(c *customer.Customer, pickupAt time.Time, rateAmount string) *load.Load {
	details := postgrestest.Details(s.T(), pickupAt, rateAmount)
	id := c.ID()
	details.CustomerID = &id
	return postgrestest.NewLoad(s.T(), s.tenantID, details)
}

// dispatch assigns the resources on the aggregates without storing them.
func (s *dbSuite) dispatch(l *load.Load, truck *fleet.Truck, driver *fleet.Driver) {
	var truckID, driverID *kernel.UUID
	if truck != nil {
		id := truck.ID()
		truckID = &id
		s.Require().NoError(truck.Assign())
	}
	if driver != nil {
		id := driver.ID()
		driverID = &id
		s.Require().NoError(driver.Assign())
	}
	_, err := l.Dispatch(truckID, driverID, postgrestest.BaseTime.Add(time.Hour))
	s.Require().NoError(err)
}

// MockCache is a testify double of ports.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
