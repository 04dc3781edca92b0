// Package clock abstracts time for the order engine so pickup-time math is
// testable.
package clock

import "time"

// ServerTimeOffset is the fixed difference between client wall clocks and the
// upstream timestamp base. Collect times are shifted by this amount before
// submission to compensate the known mismatch.
const ServerTimeOffset = 2 * time.Hour

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

// Fixed returns a Clock frozen at the given instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

// CollectTime projects a chosen pickup instant into the upstream timestamp
// base, in Unix milliseconds.
func CollectTime(pickup time.Time) int64 {
	return pickup.Add(-ServerTimeOffset).UnixMilli()
}

// EarliestPickup computes the first pickup instant a user may choose: now
// plus the preparation lead time, shifted into the upstream base.
func EarliestPickup(c Clock, prepTime time.Duration) time.Time {
	return c.Now().Add(prepTime + ServerTimeOffset)
}
