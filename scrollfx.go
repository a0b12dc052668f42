package scrollfx

import "math"

// Rect is an axis-aligned rectangle in document space. The origin is the
// top-left of the scrollable content, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Grow returns r expanded by margin on every side. A negative margin shrinks
// the rectangle; it never shrinks past a zero-size rectangle at its center.
func (r Rect) Grow(margin float64) Rect {
	g := Rect{X: r.X - margin, Y: r.Y - margin, Width: r.Width + 2*margin, Height: r.Height + 2*margin}
	if g.Width < 0 {
		g.X = r.X + r.Width/2
		g.Width = 0
	}
	if g.Height < 0 {
		g.Y = r.Y + r.Height/2
		g.Height = 0
	}
	return g
}

// span returns the start and length of r along the scroll axis.
func (r Rect) span(o Orientation) (start, size float64) {
	if o == OrientationHorizontal {
		return r.X, r.Width
	}
	return r.Y, r.Height
}

// Range is a from/to pair of output values for a channel.
type Range struct {
	From, To float64
}

// Lerp maps t in [0, 1] onto the range. Values of t outside [0, 1]
// extrapolate, which only spring bindings rely on.
func (r Range) Lerp(t float64) float64 {
	return r.From + (r.To-r.From)*t
}

// Orientation selects the scroll axis.
type Orientation uint8

const (
	OrientationVertical   Orientation = iota // scroll along Y (default)
	OrientationHorizontal                    // scroll along X
)

// String returns "vertical" or "horizontal".
func (o Orientation) String() string {
	if o == OrientationHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// UnmarshalText accepts "vertical" or "horizontal" so Orientation can be
// read from YAML configs.
func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "vertical":
		*o = OrientationVertical
	case "horizontal":
		*o = OrientationHorizontal
	default:
		return &ConfigurationError{Field: "orientation", Reason: "unknown orientation " + string(text)}
	}
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Direction is the sign of the most recent scroll motion.
type Direction uint8

const (
	DirectionIdle     Direction = iota // not moving
	DirectionForward                   // position increasing
	DirectionBackward                  // position decreasing
)

// String returns a lowercase name for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "idle"
	}
}

// ScrollState is the per-tick snapshot of the virtual scroll position.
// Velocity is in pixels per millisecond.
type ScrollState struct {
	Position    float64
	Velocity    float64
	MaxPosition float64
	Direction   Direction
}

// Progress returns Position as a fraction of MaxPosition, clamped to [0, 1].
// Content that does not scroll reports 0.
func (s ScrollState) Progress() float64 {
	if s.MaxPosition <= 0 {
		return 0
	}
	return clamp01(s.Position / s.MaxPosition)
}

// TickContext is handed by value to every stage and subscriber of a tick.
// Viewport is the visible part of the document for this tick.
type TickContext struct {
	TimestampMs float64
	DeltaMs     float64
	Scroll      ScrollState
	Viewport    Rect
}

// Channel identifies an output property written by bindings and reveals.
type Channel uint8

const (
	ChannelOpacity    Channel = iota // alpha, usually in [0, 1]
	ChannelTranslateY                // vertical offset in pixels
	ChannelScale                     // uniform scale factor
	ChannelSkewY                     // vertical skew in degrees
	ChannelTranslateX                // horizontal offset in pixels
	ChannelScaleX                    // horizontal-only scale factor (wipe reveals)
	channelCount
)

var channelNames = [channelCount]string{"opacity", "translateY", "scale", "skewY", "translateX", "scaleX"}

// String returns the channel's name.
func (c Channel) String() string {
	if c < channelCount {
		return channelNames[c]
	}
	return "unknown"
}

// Element is a view element the engine observes. Bounds is the element's
// layout box in document space, independent of the scroll position.
// Mounted reports false once the element has left the document; the engine
// then drops whatever refers to it.
type Element interface {
	Bounds() Rect
	Mounted() bool
}

// Target receives channel writes.
type Target interface {
	SetChannel(ch Channel, value float64)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
