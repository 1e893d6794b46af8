package focus

import "time"

// DefaultDoubleClickWindow bounds the gap between two activations that
// read as one double. 300ms keeps deliberate repeat clicks distinct
// from a double on every common input device.
const DefaultDoubleClickWindow = 300 * time.Millisecond

// ClickTarget identifies what an activation landed on: a row by path,
// or the empty space beneath the tree.
type ClickTarget struct {
	Path  string
	Empty bool
}

// EmptyTarget is the activation target for clicks below the last row.
// A double on it climbs back one level.
var EmptyTarget = ClickTarget{Empty: true}

// ClickArbiter turns single activations into doubles without timers:
// it only compares the timestamps the host event already carries, so
// there is nothing to schedule or cancel. Two states: idle, or armed
// on one target. A second activation on the armed target inside the
// window completes the double and disarms, so a triple-click starts a
// fresh cycle instead of chaining. (bur-9mt)
type ClickArbiter struct {
	window  time.Duration
	armed   bool
	target  ClickTarget
	armedAt time.Time
}

// NewClickArbiter returns an arbiter with the given window; zero or
// negative means DefaultDoubleClickWindow.
func NewClickArbiter(window time.Duration) *ClickArbiter {
	if window <= 0 {
		window = DefaultDoubleClickWindow
	}
	return &ClickArbiter{window: window}
}

// Window returns the configured double-activation window.
func (a *ClickArbiter) Window() time.Duration {
	return a.window
}

// Observe feeds one activation into the arbiter and reports whether it
// completed a double on its target. The caller suppresses its native
// handling of the activation exactly when Observe returns true; on
// false the activation stays a plain single (select, manual toggle)
// and the arbiter is armed on that target.
//
// A different target or an expired window never fires: the activation
// re-arms on the new target.
func (a *ClickArbiter) Observe(target ClickTarget, at time.Time) bool {
	if a.armed && a.target == target {
		elapsed := at.Sub(a.armedAt)
		if elapsed >= 0 && elapsed <= a.window {
			a.armed = false
			return true
		}
	}
	a.armed = true
	a.target = target
	a.armedAt = at
	return false
}

// Reset disarms the arbiter. Call when the view scrolls or rebuilds so
// a click armed on one row cannot pair with a click on whatever row
// took its place.
func (a *ClickArbiter) Reset() {
	a.armed = false
}
