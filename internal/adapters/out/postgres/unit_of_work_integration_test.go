package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work against a real
// PostgreSQL to cover row locks and the lock timeout.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration suite in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("freight"),
		tcpostgres.WithUsername("freight"),
		tcpostgres.WithPassword("freight"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres.Open(postgres.Options{Driver: postgres.DriverPostgres, DSN: dsn, MaxOpenConns: 8}, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(postgres.Migrate(db))
	suite.db = db

	suite.factory = postgres.NewGormUnitOfWorkFactory(db, postgres.WithLockTimeout(200*time.Millisecond))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE loads, trucks, drivers, customers, load_events").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		_ = postgres.Close(suite.db)
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRowLockTimesOutAsConflict() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()
	truck := postgrestest.NewTruck(suite.T(), tenantID, "T-LOCK")
	suite.Require().NoError(suite.factory.Create().TruckRepository().Add(ctx, truck))

	holder := suite.factory.Create()
	suite.Require().NoError(holder.Begin(ctx))
	defer func() { _ = holder.Rollback(ctx) }()
	_, err := holder.TruckRepository().GetForUpdate(ctx, tenantID, truck.ID())
	suite.Require().NoError(err)

	waiter := suite.factory.Create()
	suite.Require().NoError(waiter.Begin(ctx))
	defer func() { _ = waiter.Rollback(ctx) }()

	started := time.Now()
	_, err = waiter.TruckRepository().GetForUpdate(ctx, tenantID, truck.ID())
	suite.Equal(errs.KindResourceConflict, errs.KindOf(err))
	suite.Less(time.Since(started), 5*time.Second)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitIsVisibleToOtherUnits() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()
	l := postgrestest.NewLoad(suite.T(), tenantID, postgrestest.Details(suite.T(), postgrestest.BaseTime, "1200"))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.LoadRepository().Add(ctx, l))

	_, err := suite.factory.Create().LoadRepository().Get(ctx, tenantID, l.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound, "uncommitted rows stay invisible")

	suite.Require().NoError(uow.Commit(ctx))
	got, err := suite.factory.Create().LoadRepository().Get(ctx, tenantID, l.ID())
	suite.Require().NoError(err)
	suite.Equal("1370.00", got.Charges().Total().String())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDuplicateTruckNumberConflicts() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()
	repo := suite.factory.Create().TruckRepository()

	suite.Require().NoError(repo.Add(ctx, postgrestest.NewTruck(suite.T(), tenantID, "T-7")))
	err := repo.Add(ctx, postgrestest.NewTruck(suite.T(), tenantID, "T-7"))
	suite.Equal(errs.KindResourceConflict, errs.KindOf(err))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReportSnapshotIsReadOnly() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()
	l := postgrestest.NewLoad(suite.T(), tenantID, postgrestest.Details(suite.T(), postgrestest.BaseTime, "900"))
	suite.Require().NoError(suite.factory.Create().LoadRepository().Add(ctx, l))

	window := services.MonthRange(postgrestest.BaseTime)
	ds, err := postgres.NewGormReportSource(suite.db).Snapshot(ctx, tenantID, &window)
	suite.Require().NoError(err)
	suite.Len(ds.Loads, 1)
}
