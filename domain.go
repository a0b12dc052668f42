package scrollfx

import (
	"fmt"
	"math"
)

// DomainKind selects how a Domain measures scroll.
type DomainKind uint8

const (
	DomainProgress DomainKind = iota // fractions of MaxPosition
	DomainOffset                     // absolute scroll offsets in pixels
	DomainElement                    // anchors on the trigger element and viewport
)

// Anchor pins a domain edge to the moment a point on the trigger element
// meets a point on the viewport. Element and Viewport are fractions along
// the scroll axis (0 = top/left, 1 = bottom/right); Offset shifts the
// resulting scroll position in pixels.
//
// "top bottom" is Anchor{Element: 0, Viewport: 1}: the element's top edge
// reaches the viewport's bottom edge.
type Anchor struct {
	Element  float64
	Viewport float64
	Offset   float64
}

// Frequently used anchors.
var (
	AnchorTopBottom = Anchor{Element: 0, Viewport: 1}
	AnchorTopTop    = Anchor{Element: 0, Viewport: 0}
	AnchorBottomTop = Anchor{Element: 1, Viewport: 0}
	AnchorCenter    = Anchor{Element: 0.5, Viewport: 0.5}
)

// Domain is the stretch of scroll a binding or media scrub maps onto
// progress 0..1.
type Domain struct {
	Kind       DomainKind
	Start, End float64
	StartAt    Anchor
	EndAt      Anchor
}

// ProgressDomain spans [start, end] as fractions of the scrollable length.
func ProgressDomain(start, end float64) Domain {
	return Domain{Kind: DomainProgress, Start: start, End: end}
}

// OffsetDomain spans [startPx, endPx] of absolute scroll offset.
func OffsetDomain(startPx, endPx float64) Domain {
	return Domain{Kind: DomainOffset, Start: startPx, End: endPx}
}

// ElementDomain spans from the start anchor to the end anchor, measured on
// the trigger element each tick so layout changes are picked up.
func ElementDomain(start, end Anchor) Domain {
	return Domain{Kind: DomainElement, StartAt: start, EndAt: end}
}

// validate rejects domains that can never produce a progress value.
func (d Domain) validate(field string, trigger Element) error {
	switch d.Kind {
	case DomainProgress, DomainOffset:
		if !finite(d.Start) || !finite(d.End) {
			return &ConfigurationError{Field: field, Reason: "domain bounds must be finite"}
		}
		if d.Start == d.End {
			return &ConfigurationError{Field: field, Reason: fmt.Sprintf("zero-length domain [%v, %v]", d.Start, d.End)}
		}
	case DomainElement:
		if trigger == nil {
			return &ConfigurationError{Field: field, Reason: "element domain needs a trigger element"}
		}
		for _, a := range []Anchor{d.StartAt, d.EndAt} {
			if !finite(a.Element) || !finite(a.Viewport) || !finite(a.Offset) {
				return &ConfigurationError{Field: field, Reason: "anchors must be finite"}
			}
		}
		if d.StartAt == d.EndAt {
			return &ConfigurationError{Field: field, Reason: "start and end anchors are identical"}
		}
	default:
		return &ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown domain kind %d", d.Kind)}
	}
	return nil
}

// progress returns the clamped position of the tick's scroll within d.
func (d Domain) progress(ctx TickContext, trigger Element, o Orientation) float64 {
	var metric, start, end float64
	switch d.Kind {
	case DomainProgress:
		if ctx.Scroll.MaxPosition <= 0 {
			return 0
		}
		metric = ctx.Scroll.Position / ctx.Scroll.MaxPosition
		start, end = d.Start, d.End
	case DomainOffset:
		metric = ctx.Scroll.Position
		start, end = d.Start, d.End
	case DomainElement:
		metric = ctx.Scroll.Position
		_, vp := ctx.Viewport.span(o)
		elStart, elSize := trigger.Bounds().span(o)
		start = elStart + d.StartAt.Element*elSize - d.StartAt.Viewport*vp + d.StartAt.Offset
		end = elStart + d.EndAt.Element*elSize - d.EndAt.Viewport*vp + d.EndAt.Offset
	}
	if start == end {
		// A degenerate layout: step at the edge.
		if metric >= start {
			return 1
		}
		return 0
	}
	p := (metric - start) / (end - start)
	if math.IsNaN(p) {
		return 0
	}
	return clamp01(p)
}
