package scrollfx

import (
	"errors"
	"math"
	"testing"
)

// fakeMedia records seeks and playback state.
type fakeMedia struct {
	duration float64
	known    bool
	paused   bool
	seeks    []float64
	panics   bool
}

func (m *fakeMedia) Duration() (float64, bool) { return m.duration, m.known }
func (m *fakeMedia) Paused() bool              { return m.paused }
func (m *fakeMedia) SetPaused(p bool)          { m.paused = p }

func (m *fakeMedia) Seek(t float64) {
	if m.panics {
		panic("decoder error")
	}
	m.seeks = append(m.seeks, t)
}

func (m *fakeMedia) last() float64 {
	if len(m.seeks) == 0 {
		return math.NaN()
	}
	return m.seeks[len(m.seeks)-1]
}

func TestMediaScrubCapped(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000) // MaxPosition 1000

	m := &fakeMedia{duration: 12, known: true}
	h, err := e.RegisterMediaScrub(MediaScrubSpec{
		Media:          m,
		Domain:         ProgressDomain(0, 1),
		DurationCapSec: 8,
	})
	if err != nil {
		t.Fatal(err)
	}

	e.ScrollTo(500, ScrollToOptions{Immediate: true})
	e.Step(16)
	if !approxEqual(m.last(), 4, epsilon) {
		t.Errorf("seek = %f, want 4", m.last())
	}
	st, _ := e.ScrubStatus(h)
	if !st.Applied || !approxEqual(st.LastAppliedTimeSec, 4, epsilon) {
		t.Errorf("status = %+v", st)
	}
}

func TestMediaScrubUncapped(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000)

	m := &fakeMedia{duration: 12, known: true}
	if _, err := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)}); err != nil {
		t.Fatal(err)
	}
	e.ScrollTo(1000, ScrollToOptions{Immediate: true})
	e.Step(16)
	if !approxEqual(m.last(), 12, epsilon) {
		t.Errorf("seek = %f, want 12", m.last())
	}
}

func TestMediaScrubInertUntilDurationKnown(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000)

	m := &fakeMedia{}
	h, _ := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)})
	e.ScrollTo(250, ScrollToOptions{Immediate: true})
	for i := 0; i < 5; i++ {
		e.Step(16)
	}
	if len(m.seeks) != 0 {
		t.Fatalf("seeks = %v before duration known", m.seeks)
	}
	if st, _ := e.ScrubStatus(h); st.DurationKnown {
		t.Error("DurationKnown = true")
	}

	m.duration, m.known = 10, true
	e.Step(16)
	if !approxEqual(m.last(), 2.5, epsilon) {
		t.Errorf("seek = %f, want 2.5", m.last())
	}
}

func TestMediaScrubSkipsRedundantSeeks(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000)

	m := &fakeMedia{duration: 10, known: true}
	h, _ := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)})
	e.ScrollTo(300, ScrollToOptions{Immediate: true})
	for i := 0; i < 10; i++ {
		e.Step(16)
	}
	if len(m.seeks) != 1 {
		t.Errorf("seeks = %d while idle, want 1", len(m.seeks))
	}
	if st, _ := e.ScrubStatus(h); st.Seeks != 1 {
		t.Errorf("Seeks = %d, want 1", st.Seeks)
	}
}

func TestMediaScrubTimeInBounds(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000)

	m := &fakeMedia{duration: 6, known: true}
	_, _ = e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: OffsetDomain(200, 400), DurationCapSec: 8})
	for pos := 0.0; pos <= 1000; pos += 37 {
		e.ScrollTo(pos, ScrollToOptions{Immediate: true})
		e.Step(16)
	}
	for _, s := range m.seeks {
		if s < 0 || s > 6 {
			t.Errorf("seek %f outside [0, 6]", s)
		}
	}
}

func TestMediaScrubOwnership(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	m := &fakeMedia{duration: 5, known: true}
	h, err := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || !errors.Is(err, ErrMediaOwned) {
		t.Fatalf("second scrub err = %v, want ConfigurationError wrapping ErrMediaOwned", err)
	}
	if e.media.list.len() != 1 {
		t.Errorf("scrubs = %d, want 1", e.media.list.len())
	}

	h.Remove()
	if _, err := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)}); err != nil {
		t.Errorf("register after release: %v", err)
	}
}

func TestMediaScrubPauseRestore(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	playing := &fakeMedia{duration: 5, known: true}
	h, _ := e.RegisterMediaScrub(MediaScrubSpec{Media: playing, Domain: ProgressDomain(0, 1)})
	if !playing.paused {
		t.Error("media should be paused while scrubbed")
	}
	h.Remove()
	h.Remove()
	if playing.paused {
		t.Error("media should resume after release")
	}

	stopped := &fakeMedia{duration: 5, known: true, paused: true}
	h, _ = e.RegisterMediaScrub(MediaScrubSpec{Media: stopped, Domain: ProgressDomain(0, 1)})
	h.Remove()
	if !stopped.paused {
		t.Error("media that was paused before should stay paused")
	}
}

func TestMediaScrubPrunedOnUnmount(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 3000)

	el := NewBox("video", Rect{Y: 1000, Height: 500})
	m := &fakeMedia{duration: 5, known: true}
	h, err := e.RegisterMediaScrub(MediaScrubSpec{
		Media:   m,
		Trigger: el,
		Domain:  ElementDomain(AnchorTopBottom, AnchorBottomTop),
	})
	if err != nil {
		t.Fatal(err)
	}
	e.ScrollTo(750, ScrollToOptions{Immediate: true})
	e.Step(16)
	if !approxEqual(m.last(), 2.5, epsilon) {
		t.Errorf("seek = %f, want 2.5", m.last())
	}

	el.Unmount()
	e.ScrollTo(1000, ScrollToOptions{Immediate: true})
	e.Step(16)
	if len(m.seeks) != 1 {
		t.Errorf("seeks = %d after unmount, want 1", len(m.seeks))
	}
	if m.paused {
		t.Error("media should be released when its trigger unmounts")
	}
	if _, ok := e.ScrubStatus(h); ok {
		t.Error("scrub still registered")
	}
}

func TestMediaScrubSeekPanicDropped(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Resize(800, 1000, 2000)

	m := &fakeMedia{duration: 5, known: true, panics: true}
	h, _ := e.RegisterMediaScrub(MediaScrubSpec{Media: m, Domain: ProgressDomain(0, 1)})
	e.Step(16)
	if _, ok := e.ScrubStatus(h); ok {
		t.Error("panicking scrub should be dropped")
	}
	if m.paused {
		t.Error("dropped scrub should release its media")
	}
}

func TestMediaScrubConfigurationErrors(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	tests := []MediaScrubSpec{
		{Domain: ProgressDomain(0, 1)},
		{Media: &fakeMedia{}, Domain: ProgressDomain(0.5, 0.5)},
		{Media: &fakeMedia{}, Domain: ProgressDomain(0, 1), DurationCapSec: -1},
		{Media: &fakeMedia{}, Domain: ProgressDomain(0, 1), DurationCapSec: math.NaN()},
	}
	for i, spec := range tests {
		if _, err := e.RegisterMediaScrub(spec); err == nil {
			t.Errorf("spec %d: want error", i)
		}
	}
}

// clipList is a value-type Media whose slice field makes it unhashable.
type clipList struct {
	clips []float64
}

func (c clipList) Duration() (float64, bool) { return 1, true }
func (c clipList) Seek(float64)              {}
func (c clipList) Paused() bool              { return false }
func (c clipList) SetPaused(bool)            {}

func TestMediaScrubRejectsUncomparableMedia(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	_, err := e.RegisterMediaScrub(MediaScrubSpec{Media: clipList{clips: []float64{1}}, Domain: ProgressDomain(0, 1)})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "media" {
		t.Fatalf("RegisterMediaScrub = %v, want *ConfigurationError on media", err)
	}
	if e.media.list.len() != 0 || len(e.media.owners) != 0 {
		t.Error("rejected scrub was registered")
	}
	e.Step(16)
}

func TestTargetTime(t *testing.T) {
	tests := []struct{ p, d, c, want float64 }{
		{0.5, 12, 8, 4},
		{0.5, 12, math.Inf(1), 6},
		{1, 4, 8, 4},
		{-1, 4, 8, 0},
		{2, 4, 8, 4},
	}
	for _, tt := range tests {
		if got := targetTime(tt.p, tt.d, tt.c); !approxEqual(got, tt.want, epsilon) {
			t.Errorf("targetTime(%v, %v, %v) = %f, want %f", tt.p, tt.d, tt.c, got, tt.want)
		}
	}
}
