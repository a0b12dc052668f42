package scrollfx

import (
	"fmt"
	"math"
	"reflect"
)

// mediaEpsilon is the smallest change in target time, in seconds, that is
// worth a seek.
const mediaEpsilon = 1e-3

// Media is a seekable, pausable media resource. Implementations must be
// comparable (normally a pointer type): ownership is tracked by identity.
type Media interface {
	// Duration reports the length in seconds and whether it is known yet.
	Duration() (seconds float64, known bool)
	// Seek moves the playback head to seconds.
	Seek(seconds float64)
	// Paused reports whether autonomous playback is suspended.
	Paused() bool
	// SetPaused suspends or resumes autonomous playback.
	SetPaused(paused bool)
}

// MediaScrubSpec declares scroll-scrubbed media.
type MediaScrubSpec struct {
	Media Media
	// Trigger is required for ElementDomain and prunes the scrub when it
	// unmounts.
	Trigger Element
	Domain  Domain
	// DurationCapSec bounds the scrubbed time. Zero or +Inf leaves the
	// media's own duration as the only bound.
	DurationCapSec float64
}

// ScrubStatus reports a media scrub's state.
type ScrubStatus struct {
	DurationKnown      bool
	Applied            bool
	LastAppliedTimeSec float64
	Seeks              int
}

type mediaScrub struct {
	media     Media
	trigger   Element
	domain    Domain
	cap       float64
	wasPaused bool
	released  bool
	known     bool
	applied   bool
	lastTime  float64
	seeks     int
}

// mediaRegistry maps scroll to media time and owns every scrubbed resource
// for as long as its scrub is registered.
type mediaRegistry struct {
	e      *Engine
	list   entryList[*mediaScrub]
	owners map[Media]uint32
}

func newMediaScrub(spec MediaScrubSpec) (*mediaScrub, error) {
	if spec.Media == nil {
		return nil, &ConfigurationError{Field: "media", Reason: "required"}
	}
	if typ := reflect.TypeOf(spec.Media); !typ.Comparable() {
		return nil, &ConfigurationError{Field: "media", Reason: fmt.Sprintf("%v is not comparable; pass a pointer", typ)}
	}
	if err := spec.Domain.validate("media domain", spec.Trigger); err != nil {
		return nil, err
	}
	c := spec.DurationCapSec
	switch {
	case math.IsNaN(c) || c < 0:
		return nil, &ConfigurationError{Field: "media durationCapSec", Reason: fmt.Sprintf("%v must be >= 0", c)}
	case c == 0:
		c = math.Inf(1)
	}
	return &mediaScrub{
		media:   spec.Media,
		trigger: spec.Trigger,
		domain:  spec.Domain,
		cap:     c,
	}, nil
}

// claim takes ownership of m's media and suspends its own playback.
func (r *mediaRegistry) claim(id uint32, m *mediaScrub) error {
	if r.owners == nil {
		r.owners = make(map[Media]uint32)
	}
	if owner, ok := r.owners[m.media]; ok {
		return &ConfigurationError{Field: "media", Reason: fmt.Sprintf("owned by scrub #%d", owner), Err: ErrMediaOwned}
	}
	r.owners[m.media] = id
	m.wasPaused = m.media.Paused()
	m.media.SetPaused(true)
	return nil
}

// release gives the media back, restoring the playback state it had before
// it was claimed. It runs at most once per scrub.
func (r *mediaRegistry) release(id uint32, m *mediaScrub) {
	if m.released {
		return
	}
	m.released = true
	if r.owners[m.media] == id {
		delete(r.owners, m.media)
	}
	if !m.wasPaused {
		m.media.SetPaused(false)
	}
}

func (r *mediaRegistry) remove(id uint32) bool {
	m, ok := r.list.get(id)
	if !ok {
		return false
	}
	r.release(id, m)
	return r.list.remove(id)
}

// evaluate applies at most one seek per scrub for this tick.
func (r *mediaRegistry) evaluate(ctx TickContext) (seeks int) {
	o := r.e.orientation()
	r.list.each(func(id uint32, m *mediaScrub) bool {
		if !r.e.started {
			return true
		}
		if m.trigger != nil && !m.trigger.Mounted() {
			r.e.debugf("%v", staleReferenceError{kind: kindMedia, id: id})
			r.release(id, m)
			return false
		}
		dur, known := m.media.Duration()
		if !known || !finite(dur) || dur < 0 {
			m.known = false
			return true
		}
		if !m.known {
			m.known = true
			r.e.debugf("media scrub #%d active: duration %.3fs", id, dur)
		}
		p := m.domain.progress(ctx, m.trigger, o)
		t := targetTime(p, dur, m.cap)
		if m.applied && math.Abs(t-m.lastTime) < mediaEpsilon {
			return true
		}
		if err := m.seek(t); err != nil {
			r.e.warnf("media scrub #%d dropped: %v", id, err)
			r.release(id, m)
			return false
		}
		seeks++
		return true
	})
	return seeks
}

func (m *mediaScrub) seek(t float64) (err error) {
	defer recoverCallback(&err)
	m.media.Seek(t)
	m.applied = true
	m.lastTime = t
	m.seeks++
	return nil
}

// targetTime maps progress onto [0, min(duration, cap)].
func targetTime(progress, duration, limit float64) float64 {
	return clamp01(progress) * math.Min(duration, limit)
}

func (m *mediaScrub) status() ScrubStatus {
	return ScrubStatus{
		DurationKnown:      m.known,
		Applied:            m.applied,
		LastAppliedTimeSec: m.lastTime,
		Seeks:              m.seeks,
	}
}
