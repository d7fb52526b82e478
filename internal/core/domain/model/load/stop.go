package load

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Location is a postal address with an optional coordinate.
type Location struct {
	Name        string
	AddressLine string
	City        string
	State       string
	PostalCode  string
	Country     string
	Point       *kernel.GeoPoint
}

// Normalize trims the fields and defaults Country to "US".
func (l Location) Normalize() Location {
	l.Name = strings.TrimSpace(l.Name)
	l.AddressLine = strings.TrimSpace(l.AddressLine)
	l.City = strings.TrimSpace(l.City)
	l.State = strings.ToUpper(strings.TrimSpace(l.State))
	l.PostalCode = strings.TrimSpace(l.PostalCode)
	l.Country = strings.ToUpper(strings.TrimSpace(l.Country))
	if l.Country == "" {
		l.Country = "US"
	}
	return l
}

// Validate requires a city and a state, and a constructed point when one is set.
func (l Location) Validate(param string) error {
	var problems []error
	if strings.TrimSpace(l.City) == "" {
		problems = append(problems, errs.NewValueIsRequiredError(param+" city"))
	}
	if strings.TrimSpace(l.State) == "" {
		problems = append(problems, errs.NewValueIsRequiredError(param+" state"))
	}
	if l.Point != nil {
		if err := l.Point.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

// Label is "City, ST" for display.
func (l Location) Label() string {
	if l.State == "" {
		return l.City
	}
	return l.City + ", " + l.State
}

// Stop is an itinerary point: where and when.
type Stop struct {
	Location Location
	At       time.Time
}

// NewStop validates a pickup or delivery stop. param names the stop in errors.
func NewStop(param string, location Location, at time.Time) (Stop, error) {
	location = location.Normalize()
	var problems []error
	if err := location.Validate(param); err != nil {
		problems = append(problems, err)
	}
	if at.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError(param+" datetime"))
	}
	if len(problems) > 0 {
		return Stop{}, errors.Join(problems...)
	}
	return Stop{Location: location, At: at.UTC()}, nil
}

// IsZero reports whether the stop was never set.
func (s Stop) IsZero() bool {
	return s.At.IsZero() && s.Location.City == ""
}
