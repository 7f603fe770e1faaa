package testutil

import (
	"sync"
	"time"
)

// FrameDuration is the wall time one simulated frame advances a FrameClock.
const FrameDuration = 50 * time.Millisecond

// Epoch is the instant every FrameClock starts at.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// FrameClock is a manual wall clock for script timers.
//
// Script timers compare against Now, so a scenario that advances the clock
// one frame at a time fires the same timers on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FrameClock struct {
	mu     sync.Mutex
	now    time.Time
	frames int64
}

// NewFrameClock creates a clock at Epoch.
func NewFrameClock() *FrameClock {
	return &FrameClock{now: Epoch}
}

// Now returns the current instant. It has the signature script.WithNow
// expects.
func (c *FrameClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Tick advances the clock by one frame and returns the new frame count.
func (c *FrameClock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(FrameDuration)
	c.frames++
	return c.frames
}

// Advance moves the clock forward by d without counting frames.
func (c *FrameClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Frames returns the number of ticks so far.
func (c *FrameClock) Frames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Reset returns the clock to Epoch and zero frames.
func (c *FrameClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
	c.frames = 0
}
