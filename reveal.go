package scrollfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RevealChannel animates one channel between a hidden (From) and a shown
// (To) value.
type RevealChannel struct {
	Channel  Channel
	From, To float64
}

// RevealSpec is a timed entrance animation started when a trigger gate
// fires. Each target runs the same channels, offset by Stagger seconds.
type RevealSpec struct {
	Targets  []Target
	Channels []RevealChannel
	// Duration, Delay and Stagger are in seconds.
	Duration float32
	Delay    float32
	Stagger  float32
	// Ease defaults to ease.OutCubic.
	Ease ease.TweenFunc
}

// revealTrack animates the channels of one target.
type revealTrack struct {
	target Target
	tweens []*gween.Tween
	values []float64
	wait   float32
	done   bool
}

// revealGroup drives a RevealSpec. Like a tween group it stops writing as
// soon as its target leaves the document.
type revealGroup struct {
	spec   RevealSpec
	tracks []revealTrack
}

func newRevealGroup(spec RevealSpec) (*revealGroup, error) {
	if len(spec.Targets) == 0 {
		return nil, &ConfigurationError{Field: "reveal targets", Reason: "at least one target is required"}
	}
	if len(spec.Channels) == 0 {
		return nil, &ConfigurationError{Field: "reveal channels", Reason: "at least one channel is required"}
	}
	for _, rc := range spec.Channels {
		if rc.Channel >= channelCount {
			return nil, &ConfigurationError{Field: "reveal channels", Reason: "unknown channel"}
		}
		if !finite(rc.From) || !finite(rc.To) {
			return nil, &ConfigurationError{Field: "reveal channels", Reason: rc.Channel.String() + " values must be finite"}
		}
	}
	if spec.Duration < 0 || spec.Delay < 0 || spec.Stagger < 0 {
		return nil, &ConfigurationError{Field: "reveal timing", Reason: "duration, delay and stagger must be >= 0"}
	}
	if spec.Ease == nil {
		spec.Ease = ease.OutCubic
	}
	g := &revealGroup{spec: spec, tracks: make([]revealTrack, len(spec.Targets))}
	for i, t := range spec.Targets {
		if t == nil {
			return nil, &ConfigurationError{Field: "reveal targets", Reason: "nil target"}
		}
		tr := &g.tracks[i]
		tr.target = t
		tr.tweens = make([]*gween.Tween, len(spec.Channels))
		tr.values = make([]float64, len(spec.Channels))
		tr.done = true
	}
	return g, nil
}

// hide writes the From values immediately so targets start hidden.
func (g *revealGroup) hide() {
	for i := range g.tracks {
		tr := &g.tracks[i]
		if !targetMounted(tr.target) {
			continue
		}
		for j, rc := range g.spec.Channels {
			tr.values[j] = rc.From
			tr.target.SetChannel(rc.Channel, rc.From)
		}
	}
}

// play starts the animation toward To (forward) or back toward From.
// Tweens begin at the current values, so reversing mid-flight is smooth.
func (g *revealGroup) play(forward bool) {
	for i := range g.tracks {
		tr := &g.tracks[i]
		tr.wait = g.spec.Delay + g.spec.Stagger*float32(i)
		tr.done = false
		for j, rc := range g.spec.Channels {
			end := rc.To
			if !forward {
				end = rc.From
			}
			if g.spec.Duration <= 0 {
				tr.tweens[j] = nil
				tr.values[j] = end
				continue
			}
			tr.tweens[j] = gween.New(float32(tr.values[j]), float32(end), g.spec.Duration, g.spec.Ease)
		}
	}
}

// update advances every track by dt seconds and writes the new values.
// It reports whether all tracks are finished.
func (g *revealGroup) update(dt float32) bool {
	allDone := true
	for i := range g.tracks {
		tr := &g.tracks[i]
		if tr.done {
			continue
		}
		if !targetMounted(tr.target) {
			tr.done = true
			continue
		}
		step := dt
		if tr.wait > 0 {
			if step < tr.wait {
				tr.wait -= step
				allDone = false
				continue
			}
			step -= tr.wait
			tr.wait = 0
		}
		finished := true
		for j, rc := range g.spec.Channels {
			if tw := tr.tweens[j]; tw != nil {
				val, done := tw.Update(step)
				tr.values[j] = float64(val)
				if !done {
					finished = false
				}
			}
			tr.target.SetChannel(rc.Channel, tr.values[j])
		}
		tr.done = finished
		if !finished {
			allDone = false
		}
	}
	return allDone
}

func targetMounted(t Target) bool {
	if el, ok := t.(Element); ok {
		return el.Mounted()
	}
	return true
}
