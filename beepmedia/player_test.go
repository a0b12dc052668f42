package beepmedia

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/phanxgames/scrollfx"
)

const testRate = beep.SampleRate(1000)

// newClip returns a buffered sine clip of the given length.
func newClip(t *testing.T, d time.Duration) beep.StreamSeeker {
	t.Helper()
	sine, err := generators.SineTone(testRate, 100)
	if err != nil {
		t.Fatalf("SineTone: %v", err)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(testRate.N(d), sine))
	return buf.Streamer(0, buf.Len())
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestPlayerDuration(t *testing.T) {
	p := New(testRate, newClip(t, 12*time.Second))
	d, ok := p.Duration()
	if !ok {
		t.Fatal("duration should be known")
	}
	if !approxEqual(d, 12, 1e-6) {
		t.Errorf("Duration = %f, want 12", d)
	}
}

func TestPlayerPendingUntilLoad(t *testing.T) {
	p := NewPending(testRate)
	if _, ok := p.Duration(); ok {
		t.Error("pending player should report unknown duration")
	}
	p.Seek(3) // no stream, no-op
	if p.Position() != 0 {
		t.Errorf("Position = %f, want 0", p.Position())
	}

	p.Load(newClip(t, 2*time.Second))
	if d, ok := p.Duration(); !ok || !approxEqual(d, 2, 1e-6) {
		t.Errorf("Duration = %f, %v, want 2, true", d, ok)
	}
}

func TestPlayerSeekClamps(t *testing.T) {
	p := New(testRate, newClip(t, 2*time.Second))

	p.Seek(1.5)
	if !approxEqual(p.Position(), 1.5, 1e-3) {
		t.Errorf("Position = %f, want 1.5", p.Position())
	}
	p.Seek(10)
	if !approxEqual(p.Position(), 2, 1e-3) {
		t.Errorf("Position = %f, want 2 (clamped)", p.Position())
	}
	p.Seek(-4)
	if p.Position() != 0 {
		t.Errorf("Position = %f, want 0 (clamped)", p.Position())
	}
	if p.Err() != nil {
		t.Errorf("Err = %v, want nil", p.Err())
	}
}

func TestPlayerPausedSilences(t *testing.T) {
	p := New(testRate, newClip(t, time.Second))
	p.SetPaused(true)
	if !p.Paused() {
		t.Fatal("Paused = false after SetPaused(true)")
	}

	samples := make([][2]float64, 100)
	p.Streamer().Stream(samples)
	if p.Position() != 0 {
		t.Errorf("Position = %f, want 0 while paused", p.Position())
	}
}

func TestPlayerScrubbedByEngine(t *testing.T) {
	e := scrollfx.NewEngineWithClock(scrollfx.NewFrameClock(scrollfx.NewManualTime(time.Unix(0, 0))))
	if err := e.Start(scrollfx.DefaultConfig(), nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()
	e.Resize(800, 1000, 2000)

	p := New(testRate, newClip(t, 12*time.Second))
	h, err := e.RegisterMediaScrub(scrollfx.MediaScrubSpec{
		Media:          p,
		Domain:         scrollfx.ProgressDomain(0, 1),
		DurationCapSec: 8,
	})
	if err != nil {
		t.Fatalf("RegisterMediaScrub: %v", err)
	}
	if !p.Paused() {
		t.Error("player should be paused while scrubbed")
	}

	e.ScrollTo(500, scrollfx.ScrollToOptions{Immediate: true})
	e.Step(16)
	if !approxEqual(p.Position(), 4, 1e-3) {
		t.Errorf("Position = %f, want ~4", p.Position())
	}

	h.Remove()
	if p.Paused() {
		t.Error("player should resume after the scrub is removed")
	}
}
