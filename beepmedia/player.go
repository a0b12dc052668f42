// Package beepmedia adapts beep audio streams to scrollfx.Media so a sound
// clip can be scrubbed by scroll position.
package beepmedia

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Player is a seekable, pausable beep stream. Play Streamer() through a
// speaker or mixer and register the Player with Engine.RegisterMediaScrub.
//
// A Player created with NewPending has no stream yet and reports an unknown
// duration until Load is called, so a scrub registered early stays inert
// while the clip decodes.
type Player struct {
	// Locker, when set, guards every stream mutation. Set it to the
	// speaker's lock when the stream is playing through beep/speaker.
	Locker sync.Locker

	rate beep.SampleRate
	src  beep.StreamSeeker
	ctrl *beep.Ctrl
	err  error
}

// New creates a Player over src at the given sample rate. It starts
// playing; scrubbing pauses it.
func New(rate beep.SampleRate, src beep.StreamSeeker) *Player {
	p := NewPending(rate)
	p.Load(src)
	return p
}

// NewPending creates a Player whose stream arrives later via Load.
func NewPending(rate beep.SampleRate) *Player {
	p := &Player{rate: rate}
	p.ctrl = &beep.Ctrl{Streamer: beep.Silence(-1)}
	return p
}

// Load attaches the decoded stream. The current paused state is kept.
func (p *Player) Load(src beep.StreamSeeker) {
	p.locked(func() {
		p.src = src
		p.ctrl.Streamer = src
	})
}

// Streamer returns the playback streamer to hand to a speaker or mixer.
func (p *Player) Streamer() beep.Streamer {
	return p.ctrl
}

// Duration implements scrollfx.Media.
func (p *Player) Duration() (float64, bool) {
	var d time.Duration
	var ok bool
	p.locked(func() {
		if p.src == nil {
			return
		}
		d, ok = p.rate.D(p.src.Len()), true
	})
	return d.Seconds(), ok
}

// Seek implements scrollfx.Media. The position is clamped to the stream.
// A seek error is kept and reported by Err.
func (p *Player) Seek(seconds float64) {
	p.locked(func() {
		if p.src == nil {
			return
		}
		if math.IsNaN(seconds) {
			seconds = 0
		}
		n := p.rate.N(time.Duration(seconds * float64(time.Second)))
		if n < 0 {
			n = 0
		}
		if l := p.src.Len(); n > l {
			n = l
		}
		if err := p.src.Seek(n); err != nil {
			p.err = err
		}
	})
}

// Position returns the playback head in seconds.
func (p *Player) Position() float64 {
	var d time.Duration
	p.locked(func() {
		if p.src != nil {
			d = p.rate.D(p.src.Position())
		}
	})
	return d.Seconds()
}

// Paused implements scrollfx.Media.
func (p *Player) Paused() bool {
	var paused bool
	p.locked(func() { paused = p.ctrl.Paused })
	return paused
}

// SetPaused implements scrollfx.Media.
func (p *Player) SetPaused(paused bool) {
	p.locked(func() { p.ctrl.Paused = paused })
}

// Err returns the last seek error, if any.
func (p *Player) Err() error {
	return p.err
}

func (p *Player) locked(fn func()) {
	if p.Locker != nil {
		p.Locker.Lock()
		defer p.Locker.Unlock()
	}
	fn()
}
