package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	freighthttp "freight/internal/adapters/in/http"
	"freight/internal/adapters/in/worker"
	"freight/internal/adapters/out/events"
	"freight/internal/adapters/out/metrics"
	"freight/internal/adapters/out/mqtt"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/queue"
	"freight/internal/adapters/out/rediscache"
	"freight/internal/adapters/out/xlsx"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/ports"
	"freight/internal/jobs"
	"freight/internal/pkg/authz"
	"freight/internal/pkg/keylock"
)

// CompositionRoot owns the process-wide adapters and builds the use cases on
// top of them.
type CompositionRoot struct {
	cfg Config
	log *zap.Logger

	db         *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	loadUoW    commands.LoadUoWFactory
	registry   commands.RegistryUoWFactory
	customers  commands.CustomerUoWFactory
	history    commands.HistoryUoWFactory

	clock     ports.Clock
	locker    ports.Locker
	cache     ports.Cache
	publisher *events.Fanout
	source    *postgres.GormReportSource

	redis    *redis.Client
	queue    *queue.Client
	mqtt     *mqtt.Publisher
	prom     *metrics.PromSink
	gatherer prometheus.Gatherer
}

// NewCompositionRoot opens the database and connects the optional Redis,
// queue and MQTT adapters. Close releases them.
func NewCompositionRoot(cfg Config, log *zap.Logger) (*CompositionRoot, error) {
	db, err := postgres.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:        cfg,
		log:        log,
		db:         db,
		uowFactory: postgres.NewGormUnitOfWorkFactory(db, postgres.WithLockTimeout(cfg.Locks.Timeout)),
		clock:      ports.SystemClock{},
		source:     postgres.NewGormReportSource(db),
	}
	root.loadUoW, root.registry, root.customers, root.history = commands.FactoriesFrom(root.uowFactory)

	if err = root.connect(); err != nil {
		return nil, errors.Join(err, root.Close())
	}
	return root, nil
}

func (c *CompositionRoot) connect() error {
	locks := chainLocker{keylock.New(c.cfg.Locks.Timeout)}

	if c.cfg.Redis.Enabled {
		c.redis = rediscache.NewClient(c.cfg.Redis)
		if err := c.redis.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", c.cfg.Redis.Addr(), err)
		}
		prefix := c.cfg.Redis.KeyPrefix()
		c.cache = rediscache.NewCache(c.redis, prefix)
		locks = append(locks, rediscache.NewLocker(c.redis, prefix, c.cfg.Locks.Lease, c.cfg.Locks.Timeout))
	}
	c.locker = locks

	c.queue = queue.NewClient(c.cfg.Redis, c.cfg.Queue, c.log)

	if c.cfg.MQTT.Enabled {
		publisher, err := mqtt.Connect(c.cfg.MQTT, c.log)
		if err != nil {
			return err
		}
		c.mqtt = publisher
	}

	if c.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		sink, err := metrics.NewPromSink(reg)
		if err != nil {
			return err
		}
		c.prom = sink
		c.gatherer = reg
	}

	c.publisher = events.NewFanout(c.log, c.sinks()...)
	c.log.Info("event sinks configured", zap.Strings("sinks", c.publisher.Names()))
	return nil
}

// sinks lists the event consumers. Without a queue the history is written
// inline.
func (c *CompositionRoot) sinks() []events.Sink {
	var sinks []events.Sink
	if c.queue.Enabled() {
		sinks = append(sinks, events.Sink{Name: "queue", Publisher: c.queue})
	} else {
		recorder := events.NewHistoryRecorder(commands.NewRecordLoadEventCommandHandler(c.history))
		sinks = append(sinks, events.Sink{Name: "history", Publisher: recorder})
	}
	if c.cache != nil {
		sinks = append(sinks, events.Sink{Name: "cache", Publisher: events.NewCacheInvalidator(c.cache)})
	}
	if c.mqtt != nil {
		sinks = append(sinks, events.Sink{Name: "mqtt", Publisher: c.mqtt})
	}
	if c.prom != nil {
		sinks = append(sinks, events.Sink{Name: "metrics", Publisher: c.prom})
	}
	return sinks
}

func (c *CompositionRoot) DB() *gorm.DB { return c.db }

func (c *CompositionRoot) Commands() freighthttp.Commands {
	return freighthttp.Commands{
		CreateLoad:             commands.NewCreateLoadCommandHandler(c.loadUoW, c.clock, c.publisher, c.log),
		UpdateLoad:             commands.NewUpdateLoadCommandHandler(c.loadUoW, c.locker, c.clock, c.publisher, c.log),
		DeleteLoad:             commands.NewDeleteLoadCommandHandler(c.loadUoW, c.locker, c.clock, c.publisher, c.log),
		DispatchLoad:           commands.NewDispatchLoadCommandHandler(c.loadUoW, c.locker, c.clock, c.publisher, c.log),
		UpdateLoadStatus:       commands.NewUpdateLoadStatusCommandHandler(c.loadUoW, c.locker, c.clock, c.publisher, c.log),
		UpdateLoadLocation:     commands.NewUpdateLoadLocationCommandHandler(c.loadUoW, c.locker, c.publisher, c.log),
		CreateTruck:            commands.NewCreateTruckCommandHandler(c.registry),
		CreateDriver:           commands.NewCreateDriverCommandHandler(c.registry),
		CreateCustomer:         commands.NewCreateCustomerCommandHandler(c.customers),
		SetResourceStatus:      commands.NewSetResourceStatusCommandHandler(c.registry, c.locker),
		UpdateResourceLocation: commands.NewUpdateResourceLocationCommandHandler(c.registry, c.locker),
	}
}

func (c *CompositionRoot) ExecutiveSummaryHandler() queries.ExecutiveSummaryQueryHandler {
	return queries.NewExecutiveSummaryQueryHandler(c.source, c.clock, c.cache, c.cfg.Tracking.SummaryCacheTTL, c.log)
}

func (c *CompositionRoot) Queries() freighthttp.Queries {
	return freighthttp.Queries{
		GetLoad:          queries.NewGetLoadQueryHandler(c.uowFactory),
		ListLoads:        queries.NewListLoadsQueryHandler(c.uowFactory),
		LoadHistory:      queries.NewGetLoadHistoryQueryHandler(c.uowFactory),
		ListTrucks:       queries.NewListTrucksQueryHandler(c.db),
		ListDrivers:      queries.NewListDriversQueryHandler(c.db),
		ListCustomers:    queries.NewListCustomersQueryHandler(c.db),
		ResourceStatus:   queries.NewGetResourceStatusQueryHandler(c.uowFactory),
		Revenue:          queries.NewRevenueReportQueryHandler(c.source),
		OnTime:           queries.NewOnTimeReportQueryHandler(c.source),
		Utilization:      queries.NewUtilizationReportQueryHandler(c.source),
		MonthlyTrend:     queries.NewMonthlyTrendQueryHandler(c.source),
		ExecutiveSummary: c.ExecutiveSummaryHandler(),
		ExportReports:    queries.NewExportReportsQueryHandler(c.source, xlsx.NewExporter(), c.clock),
		TrackLoad:        queries.NewTrackLoadQueryHandler(c.uowFactory, c.cache, c.cfg.Tracking.CacheTTL, c.log),
		LoadETA:          queries.NewLoadETAQueryHandler(c.uowFactory),
		VerifyTracking:   queries.NewVerifyTrackingQueryHandler(c.uowFactory),
		TrackingQR:       queries.NewTrackingQRQueryHandler(c.uowFactory, c.cfg.Tracking.PublicBaseURL),
	}
}

// Router builds the HTTP API.
func (c *CompositionRoot) Router() (*echo.Echo, error) {
	authorizer, err := authz.NewService(authz.DefaultPolicies())
	if err != nil {
		return nil, err
	}

	options := freighthttp.RouterOptions{
		JWTSecret:      c.cfg.JWT.Secret,
		Authz:          authorizer,
		AllowedOrigins: c.cfg.Server.AllowedOrigins,
		Swagger:        c.cfg.Server.Swagger,
		Logger:         c.log,
	}
	if c.prom != nil {
		options.Observer = c.prom
		options.Metrics = metrics.Handler(c.gatherer)
	}
	return freighthttp.NewRouter(freighthttp.NewServer(c.Commands(), c.Queries(), c.clock), options)
}

// Jobs returns the background jobs enabled in the configuration.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	var enabled []jobs.Job
	if c.cfg.Jobs.SummaryWarmup && c.cache != nil {
		enabled = append(enabled, jobs.NewSummaryWarmupJob(
			c.source,
			c.ExecutiveSummaryHandler(),
			c.cfg.Jobs.SummaryWarmupSchedule,
			c.log,
		))
	}
	return jobs.NewJobManager(enabled...)
}

// Worker builds the queue consumer that appends load history.
func (c *CompositionRoot) Worker() (*worker.Service, error) {
	if !c.queue.Enabled() {
		return nil, errors.New("the worker needs queue.enabled and redis.enabled")
	}
	consumer := worker.NewConsumer(commands.NewRecordLoadEventCommandHandler(c.history), c.log)
	return worker.NewService(c.cfg.Redis, c.cfg.Queue, consumer, c.log), nil
}

func (c *CompositionRoot) Close() error {
	var problems []error
	if c.mqtt != nil {
		c.mqtt.Close()
	}
	if c.queue != nil {
		problems = append(problems, c.queue.Close())
	}
	if c.redis != nil {
		problems = append(problems, c.redis.Close())
	}
	if c.db != nil {
		problems = append(problems, postgres.Close(c.db))
	}
	return errors.Join(problems...)
}

// chainLocker takes every locker in order and releases in reverse. The
// in-process lock comes first so contention inside one instance never reaches
// Redis.
type chainLocker []ports.Locker

func (l chainLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	unlocks := make([]func(), 0, len(l))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, locker := range l {
		unlock, err := locker.Lock(ctx, keys...)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
