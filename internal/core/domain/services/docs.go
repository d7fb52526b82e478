// Package services holds the domain services of the dispatch engine: logic that
// spans several aggregates and does not belong to any one of them.
//
// The package includes:
//   - LoadDispatcher: assigns trucks and drivers to loads and releases them
//   - TrackingProjector: builds the public, identifier-free tracking views
//   - ReportAggregator: revenue, on-time, utilization and trend reports over a
//     consistent dataset
//
// Services never touch storage. Command and query handlers load what they need
// and persist what the services mutate.
package services
