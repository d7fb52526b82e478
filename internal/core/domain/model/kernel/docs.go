// Package kernel provides the value objects shared by every aggregate of the
// freight domain.
//
// The package includes:
//   - UUID: identifiers for tenants, loads, trucks, drivers and customers
//   - Money: a two-decimal fixed-point amount backed by shopspring/decimal
//   - GeoPoint: a validated latitude/longitude pair
//
// All value objects are immutable. Their zero values are invalid and fail
// Validate, so a value that skipped its constructor is caught at the
// aggregate boundary.
package kernel
