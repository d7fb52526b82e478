package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

const (
	DefaultSummaryWarmupSchedule = "@every 5m"
	defaultWarmupTimeout         = time.Minute
)

type summaryHandler interface {
	Handle(ctx context.Context, query queries.ExecutiveSummaryQuery) (services.ExecutiveSummary, error)
}

// SummaryWarmupJob recomputes the cached executive summary of every tenant
// with active loads, so dashboard reads stay warm.
type SummaryWarmupJob struct {
	tenants  ports.TenantDirectory
	summary  summaryHandler
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSummaryWarmupJob accepts any cron spec, descriptors included. An empty
// schedule means every five minutes.
func NewSummaryWarmupJob(
	tenants ports.TenantDirectory,
	summary summaryHandler,
	schedule string,
	logger *zap.Logger,
) *SummaryWarmupJob {
	if schedule == "" {
		schedule = DefaultSummaryWarmupSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryWarmupJob{
		tenants:  tenants,
		summary:  summary,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		timeout:  defaultWarmupTimeout,
		logger:   logger.With(zap.String("component", "summary_warmup_job")),
	}
}

func (j *SummaryWarmupJob) Name() string { return "summary warm-up" }

func (j *SummaryWarmupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("summary warm-up failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("summary warm-up job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running warm-up to finish.
func (j *SummaryWarmupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("summary warm-up job stopped")
}

// RunOnce refreshes every tenant and returns how many succeeded. A failing
// tenant does not stop the others.
func (j *SummaryWarmupJob) RunOnce(ctx context.Context) (int, error) {
	tenants, err := j.tenants.ActiveTenants(ctx)
	if err != nil {
		return 0, err
	}

	var (
		warmed   int
		failures []error
	)
	for _, tenantID := range tenants {
		query, err := queries.NewExecutiveSummaryQuery(tenantID, true)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if _, err := j.summary.Handle(ctx, query); err != nil {
			j.logger.Warn("summary warm-up for tenant failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		warmed++
	}
	j.logger.Debug("summary warm-up done", zap.Int("tenants", len(tenants)), zap.Int("warmed", warmed))
	return warmed, errors.Join(failures...)
}
