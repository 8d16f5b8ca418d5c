package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a Clock whose time only moves when Advance is called. Callbacks
// scheduled with AfterFunc fire synchronously inside Advance, in deadline
// order, so tests observe a deterministic schedule.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

// NewFake returns a Fake clock starting at an arbitrary fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the fake current instant.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep advances the fake clock by d and returns immediately.
func (f *Fake) Sleep(d time.Duration) {
	if d > 0 {
		f.Advance(d)
	}
}

// AfterFunc schedules f to run when the fake clock advances past d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{clock: f, deadline: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// NewTicker returns a ticker fired by Advance each time the interval elapses.
func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{clock: f, interval: d, next: f.now.Add(d), ch: make(chan time.Time, 64)}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the fake clock forward by d, firing due timers and tickers.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		next, ok := f.nextDeadlineLocked(target)
		if !ok {
			break
		}
		f.now = next
		f.fireLocked()
	}

	f.now = target
	f.mu.Unlock()
}

// nextDeadlineLocked finds the earliest pending deadline at or before target.
func (f *Fake) nextDeadlineLocked(target time.Time) (time.Time, bool) {
	var deadlines []time.Time
	for _, t := range f.timers {
		if !t.fired && !t.stopped && !t.deadline.After(target) && t.deadline.After(f.now) {
			deadlines = append(deadlines, t.deadline)
		}
	}
	for _, t := range f.tickers {
		if !t.stopped && !t.next.After(target) && t.next.After(f.now) {
			deadlines = append(deadlines, t.next)
		}
	}
	if len(deadlines) == 0 {
		return time.Time{}, false
	}
	sort.Slice(deadlines, func(i, j int) bool { return deadlines[i].Before(deadlines[j]) })
	return deadlines[0], true
}

// fireLocked runs everything due at the current fake instant. Timer callbacks
// run without the lock held so they may reschedule.
func (f *Fake) fireLocked() {
	var due []func()
	for _, t := range f.timers {
		if !t.fired && !t.stopped && !t.deadline.After(f.now) {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	for _, t := range f.tickers {
		for !t.stopped && !t.next.After(f.now) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}

	f.mu.Unlock()
	for _, fn := range due {
		fn()
	}
	f.mu.Lock()
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
	fired    bool
	stopped  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeTicker struct {
	clock    *Fake
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
