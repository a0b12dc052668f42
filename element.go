package scrollfx

// Box is a minimal Element and Target: a named layout box that records the
// last value written to each channel. Hosts with their own view tree wrap
// their nodes instead; Box serves simple hosts, examples and tests.
type Box struct {
	Name   string
	Layout Rect

	// Opacity, TranslateX, TranslateY, Scale, ScaleX and SkewY hold the
	// latest channel values. NewBox initializes them to identity.
	Opacity    float64
	TranslateX float64
	TranslateY float64
	Scale      float64
	ScaleX     float64
	SkewY      float64

	// OnWrite, when set, is called after every channel write.
	OnWrite func(ch Channel, value float64)

	writes    int
	unmounted bool
}

// NewBox creates a mounted box with identity channel values.
func NewBox(name string, layout Rect) *Box {
	return &Box{
		Name:    name,
		Layout:  layout,
		Opacity: 1,
		Scale:   1,
		ScaleX:  1,
	}
}

// Bounds implements Element.
func (b *Box) Bounds() Rect {
	return b.Layout
}

// Mounted implements Element.
func (b *Box) Mounted() bool {
	return !b.unmounted
}

// Unmount removes the box from the document. Bindings, gates and reveals
// that refer to it are pruned on the next tick. Calling Unmount more than
// once is a no-op.
func (b *Box) Unmount() {
	b.unmounted = true
}

// Writes returns the total number of channel writes the box has received.
func (b *Box) Writes() int {
	return b.writes
}

// Channel returns the current value of ch.
func (b *Box) Channel(ch Channel) float64 {
	switch ch {
	case ChannelOpacity:
		return b.Opacity
	case ChannelTranslateY:
		return b.TranslateY
	case ChannelScale:
		return b.Scale
	case ChannelSkewY:
		return b.SkewY
	case ChannelTranslateX:
		return b.TranslateX
	case ChannelScaleX:
		return b.ScaleX
	}
	return 0
}

// SetChannel implements Target.
func (b *Box) SetChannel(ch Channel, value float64) {
	switch ch {
	case ChannelOpacity:
		b.Opacity = value
	case ChannelTranslateY:
		b.TranslateY = value
	case ChannelScale:
		b.Scale = value
	case ChannelSkewY:
		b.SkewY = value
	case ChannelTranslateX:
		b.TranslateX = value
	case ChannelScaleX:
		b.ScaleX = value
	default:
		return
	}
	b.writes++
	if b.OnWrite != nil {
		b.OnWrite(ch, value)
	}
}
