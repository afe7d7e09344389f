package timex

import (
	"sync"
	"time"
)

// MonotonicClock returns UTC timestamps truncated to microseconds (the
// precision Postgres keeps) that strictly increase between calls, even when
// the wall clock stalls or steps backwards.
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// NewMonotonicClockWithSource is used by tests to drive the wall clock.
func NewMonotonicClockWithSource(now func() time.Time) *MonotonicClock {
	return &MonotonicClock{now: now}
}

func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// Observe makes later calls to Now return times after t. It lets a clock
// resume past timestamps already persisted by an earlier process.
func (c *MonotonicClock) Observe(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t = t.UTC().Truncate(time.Microsecond)
	if t.After(c.last) {
		c.last = t
	}
}
