package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Clock is an interface that abstracts the functionality for measuring and
// scheduling time. Lock expiry, autosave, heartbeats and reconnection backoff
// all schedule through a Clock so tests can advance virtual time
// deterministically instead of depending on wall-clock timers.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// Sleep pauses the current goroutine for at least the duration d. A negative or zero duration causes Sleep to return immediately.
	Sleep(duration time.Duration)
	// AfterFunc schedules f to run in its own goroutine after duration d and returns a handle that can cancel the call.
	AfterFunc(d time.Duration, f func()) Timer
	// NewTicker returns a Ticker delivering ticks at interval d.
	NewTicker(d time.Duration) Ticker
}

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop prevents the call from firing. It reports whether it stopped the timer before it fired.
	Stop() bool
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type clock struct{}

// New creates a new instance of Clock backed by the system clock.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time {
	return time.Now()
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

func (clock) AfterFunc(d time.Duration, f func()) Timer {
	return timer{t: time.AfterFunc(d, f)}
}

func (clock) NewTicker(d time.Duration) Ticker {
	return ticker{t: time.NewTicker(d)}
}

type timer struct {
	t *time.Timer
}

func (t timer) Stop() bool {
	return t.t.Stop()
}

type ticker struct {
	t *time.Ticker
}

func (t ticker) C() <-chan time.Time {
	return t.t.C
}

func (t ticker) Stop() {
	t.t.Stop()
}
