package scrollfx

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tanema/gween/ease"
)

func newTestScroller(cfg Config, viewport, content float64) *Scroller {
	s := NewScroller(cfg)
	s.Resize(viewport, content)
	return s
}

func TestScrollerConverges(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.Wheel(0, 1000)

	prevDist := math.Abs(s.Target() - s.State().Position)
	for i := 0; i < 500; i++ {
		st := s.advance(defaultFrameMs)
		dist := math.Abs(s.Target() - st.Position)
		if dist == 0 {
			if st.Velocity != 0 {
				t.Errorf("velocity = %f at rest, want 0", st.Velocity)
			}
			if st.Direction != DirectionIdle {
				t.Errorf("direction = %v at rest, want idle", st.Direction)
			}
			if st.Position != 1000 {
				t.Errorf("position = %f, want exactly 1000", st.Position)
			}
			return
		}
		if dist >= prevDist {
			t.Fatalf("tick %d: distance %f did not decrease from %f", i, dist, prevDist)
		}
		if st.Direction != DirectionForward || st.Velocity <= 0 {
			t.Fatalf("tick %d: direction %v velocity %f, want forward", i, st.Direction, st.Velocity)
		}
		prevDist = dist
	}
	t.Fatal("scroller never settled")
}

func TestScrollerFirstStepUsesSmoothing(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.Wheel(0, 1000)
	st := s.advance(defaultFrameMs)
	if !approxEqual(st.Position, 80, 1e-6) {
		t.Errorf("Position = %f, want ~80 (8%% of 1000)", st.Position)
	}
	if !approxEqual(st.Velocity, 80/defaultFrameMs, 1e-6) {
		t.Errorf("Velocity = %f, want %f", st.Velocity, 80/defaultFrameMs)
	}
}

func TestScrollerMaxStep(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.Wheel(0, 1000)
	st := s.advance(5000)
	want := 1000 * (1 - math.Pow(0.92, defaultMaxStepMs/defaultFrameMs))
	if !approxEqual(st.Position, want, 1e-6) {
		t.Errorf("Position = %f, want ~%f", st.Position, want)
	}
}

func TestScrollerZeroDelta(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.Wheel(0, 500)
	st := s.advance(0)
	if st.Position != 0 || st.Velocity != 0 {
		t.Errorf("advance(0) = %+v, want no movement", st)
	}
}

func TestScrollerStaysInBounds(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 3000)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		switch rng.IntN(4) {
		case 0:
			s.Wheel(0, (rng.Float64()-0.5)*5000)
		case 1:
			s.TouchStart(0, 0, rng.Float64()*800)
			s.TouchMove(0, 0, rng.Float64()*800)
			s.TouchEnd(0)
		case 2:
			s.SetNative((rng.Float64() - 0.5) * 10000)
		case 3:
			s.Resize(800, 1000+rng.Float64()*4000)
		}
		st := s.advance(rng.Float64() * 40)
		if st.Position < 0 || st.Position > st.MaxPosition {
			t.Fatalf("step %d: position %f outside [0, %f]", i, st.Position, st.MaxPosition)
		}
		if s.Target() < 0 || s.Target() > st.MaxPosition {
			t.Fatalf("step %d: target %f outside [0, %f]", i, s.Target(), st.MaxPosition)
		}
	}
}

func TestScrollerInfinite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Infinite = true
	s := newTestScroller(cfg, 800, 1000)
	s.Wheel(0, 10000)
	if s.Target() != 10000 {
		t.Errorf("Target = %f, want 10000 in infinite mode", s.Target())
	}
	s.Wheel(0, -50000)
	if s.Target() != 0 {
		t.Errorf("Target = %f, want 0 (lower bound kept)", s.Target())
	}
}

func TestScrollerResizeReclamps(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.SetNative(4200)
	s.Resize(800, 2000)
	st := s.State()
	if st.MaxPosition != 1200 {
		t.Errorf("MaxPosition = %f, want 1200", st.MaxPosition)
	}
	if st.Position != 1200 || s.Target() != 1200 {
		t.Errorf("Position = %f, Target = %f, want 1200", st.Position, s.Target())
	}

	s.Resize(800, 500)
	if s.State().MaxPosition != 0 || s.State().Position != 0 {
		t.Errorf("content shorter than viewport: %+v", s.State())
	}
}

func TestScrollerTouch(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.TouchStart(3, 100, 500)
	s.TouchMove(3, 100, 400)
	if !approxEqual(s.Target(), 150, epsilon) {
		t.Errorf("Target = %f, want 150 (100px x 1.5)", s.Target())
	}
	s.TouchMove(7, 100, 0) // another finger is ignored
	if !approxEqual(s.Target(), 150, epsilon) {
		t.Errorf("Target = %f after foreign touch, want 150", s.Target())
	}
	s.TouchEnd(3)
	s.TouchMove(3, 100, 0)
	if !approxEqual(s.Target(), 150, epsilon) {
		t.Errorf("Target = %f after TouchEnd, want 150", s.Target())
	}
}

func TestScrollerHorizontal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orientation = OrientationHorizontal
	s := newTestScroller(cfg, 1000, 4000)
	s.SetCrossSize(600)
	s.Wheel(0, 120) // plain mouse wheel drives the horizontal axis
	if s.Target() != 120 {
		t.Errorf("Target = %f, want 120", s.Target())
	}
	s.SetNative(300)
	vp := s.Viewport()
	if vp.X != 300 || vp.Width != 1000 || vp.Height != 600 {
		t.Errorf("Viewport = %+v", vp)
	}
}

func TestScrollerScrollToTween(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.ScrollTo(1000, ScrollToOptions{Duration: 0.5, Ease: ease.Linear})

	var st ScrollState
	for i := 0; i < 5; i++ {
		st = s.advance(50)
	}
	if !approxEqual(st.Position, 500, 1) {
		t.Errorf("halfway Position = %f, want ~500", st.Position)
	}
	for i := 0; i < 20 && s.Scrolling(); i++ {
		s.advance(16)
	}
	if s.State().Position != 1000 {
		t.Errorf("Position = %f, want exactly 1000", s.State().Position)
	}
	if s.Scrolling() {
		t.Error("Scrolling = true after tween finished")
	}
}

func TestScrollerScrollToAfterStall(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 20000)
	s.ScrollTo(10000, ScrollToOptions{Duration: 1, Ease: ease.Linear})

	before := s.advance(16).Position
	after := s.advance(5000).Position
	// One stalled tick only moves the tween by MaxStepMs.
	if !approxEqual(after-before, 1000, 1) {
		t.Errorf("jump = %f after a 5000ms tick, want ~1000 (100ms of a 1s tween)", after-before)
	}
	if !s.Scrolling() {
		t.Error("Scrolling = false, want the tween still running")
	}
}

func TestScrollerWheelCancelsScrollTo(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.ScrollTo(2000, ScrollToOptions{Duration: 1})
	s.advance(100)
	pos := s.State().Position
	s.Wheel(0, 10)
	if !approxEqual(s.Target(), pos+10, epsilon) {
		t.Errorf("Target = %f, want %f", s.Target(), pos+10)
	}
}

func TestScrollerScrollToImmediate(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	s.ScrollTo(9999, ScrollToOptions{Immediate: true})
	if s.State().Position != 4200 {
		t.Errorf("Position = %f, want 4200 (clamped)", s.State().Position)
	}
}

func TestScrollerScrollToElement(t *testing.T) {
	s := newTestScroller(DefaultConfig(), 800, 5000)
	el := NewBox("section", Rect{Y: 1500, Height: 400})
	s.ScrollToElement(el, -100, ScrollToOptions{})
	if s.Target() != 1400 {
		t.Errorf("Target = %f, want 1400", s.Target())
	}
}
