package kernel

import (
	"fmt"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when validating a zero-value GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("GeoPoint must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate. Trucks, drivers and loads keep the last one
// reported for them.
type GeoPoint struct {
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates the latitude/longitude ranges.
//
// Returns:
//   - the point
//   - ValueIsOutOfRangeError for each coordinate outside its range
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if lat < MinLatitude || lat > MaxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}
	if lon < MinLongitude || lon > MaxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lon, MinLongitude, MaxLongitude)
	}
	return GeoPoint{lat: lat, lon: lon, guard: guard.NewConstructorGuard()}, nil
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lon() float64 {
	return p.lon
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}
