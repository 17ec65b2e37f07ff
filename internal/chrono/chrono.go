package chrono

import (
	"time"

	_ "time/tzdata"
)

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time in Location().
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl returns the system clock in the given IANA zone,
// an empty zone defaults to America/Los_Angeles.
func NewStandardImpl(zone string) (StandardImpl, error) {
	if zone == "" {
		zone = "America/Los_Angeles"
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant, it is meant for tests.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}

func (f FixedImpl) Location() *time.Location {
	return f.At.Location()
}
