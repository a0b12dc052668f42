package scrollfx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScrollToOptions controls a programmatic scroll.
type ScrollToOptions struct {
	// Duration in seconds. Zero falls back to the exponential smoothing
	// every other input uses.
	Duration float32
	// Ease shapes a timed scroll. Nil uses ease.OutCubic.
	Ease ease.TweenFunc
	// Immediate jumps without animating.
	Immediate bool
}

// scrollAnim holds an active timed scroll-to tween.
type scrollAnim struct {
	tween *gween.Tween
	to    float64
}

// Scroller is the smooth scroll emulator. It accumulates raw input into a
// target position and eases the displayed position toward it once per
// tick. It is the only writer of scroll position in the engine.
type Scroller struct {
	cfg Config

	target   float64
	position float64
	velocity float64
	dir      Direction

	viewport float64
	cross    float64
	content  float64
	max      float64

	touching bool
	touchID  int
	touchX   float64
	touchY   float64

	scrollTween *scrollAnim
}

// NewScroller creates a scroller for the given config. The config is assumed
// valid; Engine.Start validates before calling it.
func NewScroller(cfg Config) *Scroller {
	return &Scroller{cfg: cfg}
}

// State returns a snapshot of the current scroll state.
func (s *Scroller) State() ScrollState {
	return ScrollState{
		Position:    s.position,
		Velocity:    s.velocity,
		MaxPosition: s.max,
		Direction:   s.dir,
	}
}

// Target returns the position the scroller is easing toward.
func (s *Scroller) Target() float64 {
	return s.target
}

// Viewport returns the visible document rectangle at the current position.
func (s *Scroller) Viewport() Rect {
	if s.cfg.Orientation == OrientationHorizontal {
		return Rect{X: s.position, Width: s.viewport, Height: s.cross}
	}
	return Rect{Y: s.position, Width: s.cross, Height: s.viewport}
}

// SetCrossSize records the viewport length across the scroll axis. It only
// affects the Viewport rectangle reported to consumers.
func (s *Scroller) SetCrossSize(size float64) {
	s.cross = math.Max(0, size)
}

// Resize records the viewport and content lengths along the scroll axis,
// recomputes MaxPosition and re-clamps target and position.
func (s *Scroller) Resize(viewport, content float64) {
	s.viewport = math.Max(0, viewport)
	s.content = math.Max(0, content)
	s.max = math.Max(0, s.content-s.viewport)
	s.target = s.limit(s.target)
	s.position = s.limit(s.position)
	if s.scrollTween != nil {
		s.scrollTween.to = s.limit(s.scrollTween.to)
	}
}

// Wheel applies a wheel delta. Vertical scrollers read dy; horizontal ones
// read whichever axis moved more, so a plain mouse wheel still works.
func (s *Scroller) Wheel(dx, dy float64) {
	d := dy
	if s.cfg.Orientation == OrientationHorizontal && math.Abs(dx) > math.Abs(dy) {
		d = dx
	}
	s.cancelScrollTo()
	s.target = s.limit(s.target + d*s.cfg.WheelMultiplier)
}

// TouchStart begins tracking a touch point.
func (s *Scroller) TouchStart(id int, x, y float64) {
	s.cancelScrollTo()
	s.touching = true
	s.touchID = id
	s.touchX, s.touchY = x, y
}

// TouchMove drags the target by the finger's travel since the last event.
// Dragging up scrolls forward.
func (s *Scroller) TouchMove(id int, x, y float64) {
	if !s.touching || id != s.touchID {
		return
	}
	d := s.touchY - y
	if s.cfg.Orientation == OrientationHorizontal {
		d = s.touchX - x
	}
	s.touchX, s.touchY = x, y
	s.target = s.limit(s.target + d*s.cfg.TouchMultiplier)
}

// TouchEnd stops tracking the touch point.
func (s *Scroller) TouchEnd(id int) {
	if id == s.touchID {
		s.touching = false
	}
}

// SetNative jumps target and position to a position reported by the host's
// native scroll (scrollbar drag, keyboard, anchor navigation).
func (s *Scroller) SetNative(pos float64) {
	s.cancelScrollTo()
	p := s.limit(pos)
	s.target = p
	s.position = p
	s.velocity = 0
	s.dir = DirectionIdle
}

// ScrollTo moves to pos. With a Duration the target follows a tween;
// otherwise the target jumps and the usual smoothing applies.
func (s *Scroller) ScrollTo(pos float64, opts ScrollToOptions) {
	s.cancelScrollTo()
	to := s.limit(pos)
	switch {
	case opts.Immediate:
		s.SetNative(to)
	case opts.Duration > 0:
		fn := opts.Ease
		if fn == nil {
			fn = ease.OutCubic
		}
		s.scrollTween = &scrollAnim{
			tween: gween.New(float32(s.position), float32(to), opts.Duration, fn),
			to:    to,
		}
	default:
		s.target = to
	}
}

// ScrollToElement scrolls so the element's leading edge sits offset pixels
// from the viewport's leading edge.
func (s *Scroller) ScrollToElement(el Element, offset float64, opts ScrollToOptions) {
	start, _ := el.Bounds().span(s.cfg.Orientation)
	s.ScrollTo(start+offset, opts)
}

// Scrolling reports whether the position has not yet settled on the target.
func (s *Scroller) Scrolling() bool {
	return s.scrollTween != nil || s.position != s.target
}

func (s *Scroller) cancelScrollTo() {
	if s.scrollTween == nil {
		return
	}
	s.target = s.position
	s.scrollTween = nil
}

// advance moves the scroll position by one tick and returns the new state.
func (s *Scroller) advance(deltaMs float64) ScrollState {
	prev := s.position
	snapped := false

	if s.scrollTween != nil {
		step := math.Min(math.Max(deltaMs, 0), s.cfg.MaxStepMs)
		val, done := s.scrollTween.tween.Update(float32(step / 1000))
		if done {
			s.position = s.scrollTween.to
			s.scrollTween = nil
		} else {
			s.position = s.limit(float64(val))
		}
		s.target = s.position
	} else if deltaMs > 0 {
		step := math.Min(deltaMs, s.cfg.MaxStepMs)
		f := 1 - math.Pow(1-s.cfg.Smoothing, step/s.cfg.FrameMs)
		f = clamp01(f)
		s.position += (s.target - s.position) * f
		if math.Abs(s.target-s.position) < s.cfg.Epsilon {
			s.position = s.target
			snapped = true
		}
	}
	s.position = s.limit(s.position)

	switch {
	case deltaMs <= 0 || snapped || s.position == prev:
		s.velocity = 0
	default:
		s.velocity = (s.position - prev) / deltaMs
	}
	switch {
	case s.velocity > 0:
		s.dir = DirectionForward
	case s.velocity < 0:
		s.dir = DirectionBackward
	default:
		s.dir = DirectionIdle
	}
	return s.State()
}

// limit clamps p to [0, MaxPosition], or only below at 0 in infinite mode.
func (s *Scroller) limit(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	if s.cfg.Infinite {
		return math.Max(0, p)
	}
	return clamp(p, 0, s.max)
}
