// Package clock abstracts wall-clock time so billing period math is testable.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current instant. Implementations must return UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns a Clock backed by the system wall clock.
func NewSystem() Clock { return systemClock{} }

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
