// Package jobs provides scheduled background tasks for the freight engine.
//
// Jobs are built on github.com/robfig/cron/v3 and are optional: the engine
// serves every request without them.
//
// # Available Jobs
//
//  1. SummaryWarmupJob - recomputes the executive summary of each tenant with
//     active loads and refreshes its cache entry (default "@every 5m").
//
// # Usage
//
//	warmup := jobs.NewSummaryWarmupJob(reportSource, summaryHandler, "@every 5m", logger)
//	jobManager := jobs.NewJobManager(warmup)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A tenant whose summary fails is logged and skipped; the rest are still
// refreshed. Overlapping runs are skipped.
package jobs
