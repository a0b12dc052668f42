package scrollfx

import (
	"math"

	"github.com/tanema/gween/ease"
)

// EaseFunc maps progress in [0, 1] to an eased value. The engine only ever
// calls it with clamped progress.
type EaseFunc func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// FromTween adapts a gween easing function (as used by tweens and camera
// scrolls) to an EaseFunc.
func FromTween(fn ease.TweenFunc) EaseFunc {
	if fn == nil {
		return Linear
	}
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Common easings, shared with the reveal sequences.
var (
	EaseOutCubic  = FromTween(ease.OutCubic)
	EaseInOutExpo = FromTween(ease.InOutExpo)
	EaseOutExpo   = FromTween(ease.OutExpo)
)

// CubicBezier returns the CSS cubic-bezier(x1, y1, x2, y2) timing curve.
// x1 and x2 are clamped to [0, 1] so the curve stays a function of t.
func CubicBezier(x1, y1, x2, y2 float64) EaseFunc {
	x1 = clamp01(x1)
	x2 = clamp01(x2)
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		// Newton-Raphson, then bisection if the slope is too flat.
		s := t
		for i := 0; i < 8; i++ {
			x := sampleX(s) - t
			if math.Abs(x) < 1e-7 {
				return sampleY(s)
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= x / d
		}
		lo, hi := 0.0, 1.0
		s = t
		for i := 0; i < 32; i++ {
			x := sampleX(s)
			if math.Abs(x-t) < 1e-7 {
				break
			}
			if x < t {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return sampleY(s)
	}
}

// EaseExpoOut is the site's signature cubic-bezier(0.16, 1, 0.3, 1).
var EaseExpoOut = CubicBezier(0.16, 1, 0.3, 1)

// Keyframe is one stop of a piecewise-linear channel curve. At is the eased
// progress in [0, 1] the stop sits at.
type Keyframe struct {
	At    float64
	Value float64
}

// interpolateKeyframes evaluates sorted keyframes at t. Values before the
// first stop or after the last hold the end values.
func interpolateKeyframes(kf []Keyframe, t float64) float64 {
	if len(kf) == 0 {
		return t
	}
	if t <= kf[0].At {
		return kf[0].Value
	}
	for i := 1; i < len(kf); i++ {
		if t <= kf[i].At {
			a, b := kf[i-1], kf[i]
			span := b.At - a.At
			if span <= 0 {
				return b.Value
			}
			return a.Value + (b.Value-a.Value)*(t-a.At)/span
		}
	}
	return kf[len(kf)-1].Value
}

// Spring configures a damped spring that chases a binding's eased value.
// Spring-driven channels may overshoot their range.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// DefaultSpring matches the headline reveal: stiffness 200, damping 30.
var DefaultSpring = Spring{Stiffness: 200, Damping: 30, Mass: 1}

// springState is one spring-integrated scalar.
type springState struct {
	value    float64
	velocity float64
	primed   bool
}

// maxSpringStep bounds one integration step; longer ticks are subdivided.
const maxSpringStep = 1.0 / 120

// step integrates toward goal over dt seconds with semi-implicit Euler.
func (st *springState) step(sp Spring, goal, dt float64) float64 {
	if !st.primed {
		st.value = goal
		st.primed = true
		return st.value
	}
	mass := sp.Mass
	if mass <= 0 {
		mass = 1
	}
	dt = math.Min(dt, 1)
	for dt > 0 {
		h := math.Min(dt, maxSpringStep)
		accel := (-sp.Stiffness*(st.value-goal) - sp.Damping*st.velocity) / mass
		st.velocity += accel * h
		st.value += st.velocity * h
		dt -= h
	}
	return st.value
}
