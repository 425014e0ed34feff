// Package clock abstracts time for components that need a fake clock in tests.
package clock

import "time"

//go:generate mockgen -destination=mock/mock_clock.go -package=mockclock -source=clock.go

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// SystemTimeProvider returns the real wall-clock time
type SystemTimeProvider struct{}

// Now returns time.Now
func (SystemTimeProvider) Now() time.Time {
	return time.Now()
}
