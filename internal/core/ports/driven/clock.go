package driven

import "time"

// Clock abstracts the time source so tests can pin time without mutating
// global state. Production code uses the real clock; a fixed clock is
// selected via configuration.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
