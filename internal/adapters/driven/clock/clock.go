// Package clock provides driven.Clock implementations: the system clock
// for production and a fixed clock for deterministic runs.
package clock

import (
	"time"

	"github.com/loomworks/loom-cli/internal/config"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
)

// Ensure both implementations satisfy the interface.
var (
	_ driven.Clock = Real{}
	_ driven.Clock = Fixed{}
)

// Real reads the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Used when configuration pins
// time for deterministic testing.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return f.T }

// FromConfig selects the clock implied by the configuration: fixed when
// a deterministic-time override is set, real otherwise.
func FromConfig(cfg config.Config) driven.Clock {
	if cfg.FixedTime != nil {
		return Fixed{T: *cfg.FixedTime}
	}
	return Real{}
}
