package scrollfx

import (
	"math"
	"time"
)

// TimeSource supplies wall-clock readings to a FrameClock.
type TimeSource interface {
	Now() time.Time
}

// SystemTime reads the real monotonic clock.
type SystemTime struct{}

// Now returns time.Now().
func (SystemTime) Now() time.Time {
	return time.Now()
}

// ManualTime is a TimeSource that only moves when told to. Use it to drive
// FrameClock.Advance deterministically in tests.
type ManualTime struct {
	now time.Time
}

// NewManualTime creates a ManualTime starting at start.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

// Now returns the current manual time.
func (m *ManualTime) Now() time.Time {
	return m.now
}

// Advance moves the manual time forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// activeClock is the one clock allowed to run. No locking: like the rest of
// the engine, clocks are driven from a single goroutine.
var activeClock *FrameClock

// FrameClock is the single per-process source of frame ticks. The host calls
// Advance once per display frame (or Tick with an explicit delta when no
// display is available) and every subscriber runs, in registration order,
// with the same timestamp and delta.
//
// Deltas are never compressed: a tick after the process was backgrounded
// carries the full elapsed time, and consumers clamp as they see fit.
type FrameClock struct {
	src     TimeSource
	running bool

	epoch       time.Time
	lastAdvance time.Time
	timestampMs float64
	ticks       uint64

	subs entryList[func(timestampMs, deltaMs float64)]

	// engine is the Engine currently driving the clock, if any.
	engine *Engine
}

// NewFrameClock creates a stopped clock reading src. A nil src uses
// SystemTime.
func NewFrameClock(src TimeSource) *FrameClock {
	if src == nil {
		src = SystemTime{}
	}
	return &FrameClock{src: src}
}

// Start begins accepting ticks. Starting a running clock is a no-op.
// Returns ErrClockConflict if a different clock is already running.
func (c *FrameClock) Start() error {
	if c.running {
		return nil
	}
	if activeClock != nil && activeClock != c {
		return ErrClockConflict
	}
	activeClock = c
	c.running = true
	now := c.src.Now()
	if c.epoch.IsZero() {
		c.epoch = now
	}
	c.lastAdvance = now
	return nil
}

// Stop halts tick emission. Stop is idempotent.
func (c *FrameClock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	if activeClock == c {
		activeClock = nil
	}
}

// Running reports whether the clock has been started and not stopped.
func (c *FrameClock) Running() bool {
	return c.running
}

// TimestampMs returns the timestamp of the most recent tick.
func (c *FrameClock) TimestampMs() float64 {
	return c.timestampMs
}

// Ticks returns the number of ticks emitted so far.
func (c *FrameClock) Ticks() uint64 {
	return c.ticks
}

// Advance emits one tick whose delta is the time elapsed on the time source
// since the previous Advance (or Start). It does nothing while stopped.
func (c *FrameClock) Advance() {
	if !c.running {
		return
	}
	now := c.src.Now()
	delta := float64(now.Sub(c.lastAdvance)) / float64(time.Millisecond)
	if now.After(c.lastAdvance) {
		c.lastAdvance = now
	}
	c.emit(delta)
}

// Tick emits one tick with an explicit delta, for hosts without a frame
// scheduler. It does nothing while stopped.
func (c *FrameClock) Tick(deltaMs float64) {
	if !c.running {
		return
	}
	c.emit(deltaMs)
}

func (c *FrameClock) emit(deltaMs float64) {
	if deltaMs < 0 || math.IsNaN(deltaMs) || math.IsInf(deltaMs, 0) {
		deltaMs = 0
	}
	c.timestampMs += deltaMs
	c.ticks++
	ts := c.timestampMs
	c.subs.each(func(_ uint32, fn func(float64, float64)) bool {
		if c.running {
			fn(ts, deltaMs)
		}
		return true
	})
}

// Subscribe registers fn to run on every tick.
func (c *FrameClock) Subscribe(fn func(timestampMs, deltaMs float64)) Handle {
	id := c.subs.add(fn)
	return Handle{id: id, kind: kindClock, reg: clockSubs{c}}
}

type clockSubs struct{ c *FrameClock }

func (s clockSubs) remove(id uint32) bool {
	return s.c.subs.remove(id)
}
