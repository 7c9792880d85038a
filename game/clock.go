package game

import (
	"sync"
	"time"
)

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// RealClock reads the wall clock.
type RealClock struct {
	origin time.Time
}

// NewRealClock returns a clock whose origin is the moment of the call.
func NewRealClock() *RealClock {
	return &RealClock{origin: time.Now()}
}

func (c *RealClock) Now() time.Duration {
	return time.Since(c.origin)
}

// ManualClock only moves when told to. Headless runs and tests use it.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set moves the clock to an absolute time.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// AdvanceSeconds advances by a fractional number of seconds.
func (c *ManualClock) AdvanceSeconds(s float64) {
	c.Advance(time.Duration(s * float64(time.Second)))
}
