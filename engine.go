package scrollfx

import (
	"io"
	"os"
	"time"
)

// Engine owns the frame clock, the smooth scroller and the three
// registries, and runs them in a fixed order on every tick:
//
//	scroll -> triggers -> bindings -> media -> tick subscribers
//
// Every stage sees the same TickContext. The engine is not safe for
// concurrent use; drive it from the host's frame loop.
type Engine struct {
	clock    *FrameClock
	clockSub Handle
	scroller *Scroller
	cfg      Config

	triggers triggerRegistry
	bindings bindingRegistry
	media    mediaRegistry
	tickSubs tickRegistry

	input    InputSource
	releases []func()
	started  bool

	// Cached layout, applied to each new scroller on Start.
	width, height, content float64

	current TickContext

	debug      bool
	logOut     io.Writer
	testRunner *TestRunner
}

// NewEngine creates a stopped engine whose clock reads the system time.
func NewEngine() *Engine {
	return NewEngineWithClock(NewFrameClock(SystemTime{}))
}

// NewEngineWithClock creates a stopped engine driven by clock.
func NewEngineWithClock(clock *FrameClock) *Engine {
	e := &Engine{
		clock:  clock,
		cfg:    DefaultConfig(),
		logOut: os.Stderr,
	}
	e.scroller = NewScroller(e.cfg)
	e.triggers.e = e
	e.bindings.e = e
	e.media.e = e
	return e
}

// Clock returns the engine's frame clock.
func (e *Engine) Clock() *FrameClock {
	return e.clock
}

// Config returns the config the engine was started with, or DefaultConfig
// before the first Start.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start validates cfg, claims the frame clock, disables the host's native
// scrolling and starts listening to src. A nil src runs without input,
// which is useful when only ScrollTo drives the page.
//
// Starting a running engine returns ErrAlreadyStarted; Stop it first to
// change the config or input source. Only one engine may drive a clock at a
// time: starting a second engine on it returns ErrClockConflict.
func (e *Engine) Start(cfg Config, src InputSource) error {
	if e.started {
		return ErrAlreadyStarted
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if owner := e.clock.engine; owner != nil && owner != e {
		return ErrClockConflict
	}
	if err := e.clock.Start(); err != nil {
		return err
	}
	e.clock.engine = e

	e.cfg = cfg
	prev := e.scroller
	e.scroller = NewScroller(cfg)
	e.applyLayout()
	e.scroller.SetNative(prev.Target())

	e.clockSub = e.clock.Subscribe(e.frame)
	e.releases = e.releases[:0]
	if src != nil {
		e.input = src
		src.SetNativeScroll(false)
		cancel := src.Listen(e.handleInput)
		e.releases = append(e.releases, cancel, func() { src.SetNativeScroll(true) })
	}
	e.started = true
	e.current = TickContext{
		TimestampMs: e.clock.TimestampMs(),
		Scroll:      e.scroller.State(),
		Viewport:    e.scroller.Viewport(),
	}
	e.debugf("started: smoothing %.3f, %s, infinite=%v", cfg.Smoothing, cfg.Orientation, cfg.Infinite)
	return nil
}

// Stop cancels every input listener registered by Start, restores native
// scrolling and releases the frame clock. It is idempotent and safe to call
// from inside a tick; no stage runs after it returns. Registrations are
// kept, so a later Start resumes them.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.started = false
	for i := len(e.releases) - 1; i >= 0; i-- {
		e.releases[i]()
	}
	e.releases = e.releases[:0]
	e.input = nil
	e.clockSub.Remove()
	if e.clock.engine == e {
		e.clock.engine = nil
	}
	e.clock.Stop()
	e.debugf("stopped")
}

// Running reports whether the engine is started.
func (e *Engine) Running() bool {
	return e.started
}

// Update runs one tick at the host's cadence, with the delta measured by
// the clock's time source.
func (e *Engine) Update() {
	e.clock.Advance()
}

// Step runs one tick with an explicit delta in milliseconds.
func (e *Engine) Step(deltaMs float64) {
	e.clock.Tick(deltaMs)
}

// Resize records the viewport size and the scrollable content length along
// the scroll axis.
func (e *Engine) Resize(width, height, content float64) {
	e.width, e.height, e.content = width, height, content
	e.applyLayout()
	if !e.started {
		return
	}
	e.current.Scroll = e.scroller.State()
	e.current.Viewport = e.scroller.Viewport()
}

func (e *Engine) applyLayout() {
	vp, cross := e.height, e.width
	if e.cfg.Orientation == OrientationHorizontal {
		vp, cross = e.width, e.height
	}
	e.scroller.SetCrossSize(cross)
	e.scroller.Resize(vp, e.content)
}

// ScrollState returns the scroll snapshot of the current tick.
func (e *Engine) ScrollState() ScrollState {
	return e.current.Scroll
}

// TickContext returns the context of the most recent tick.
func (e *Engine) TickContext() TickContext {
	return e.current
}

// ScrollTo scrolls to an absolute position. The move goes through the
// scroller like any other input and shows up from the next tick.
func (e *Engine) ScrollTo(pos float64, opts ScrollToOptions) {
	e.scroller.ScrollTo(pos, opts)
}

// ScrollToElement scrolls to an element's leading edge plus offset.
func (e *Engine) ScrollToElement(el Element, offset float64, opts ScrollToOptions) {
	e.scroller.ScrollToElement(el, offset, opts)
}

func (e *Engine) orientation() Orientation {
	return e.cfg.Orientation
}

func (e *Engine) handleInput(ev InputEvent) {
	if !e.started {
		return
	}
	switch ev.Kind {
	case InputWheel:
		e.scroller.Wheel(ev.DeltaX, ev.DeltaY)
	case InputTouchStart:
		e.scroller.TouchStart(ev.TouchID, ev.X, ev.Y)
	case InputTouchMove:
		e.scroller.TouchMove(ev.TouchID, ev.X, ev.Y)
	case InputTouchEnd:
		e.scroller.TouchEnd(ev.TouchID)
	case InputNative:
		e.scroller.SetNative(ev.Position)
	}
}

// frame is the engine's only clock subscriber.
func (e *Engine) frame(timestampMs, deltaMs float64) {
	if !e.started {
		return
	}
	var stats debugStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if p, ok := e.input.(Poller); ok {
		p.Poll()
	}

	ctx := TickContext{
		TimestampMs: timestampMs,
		DeltaMs:     deltaMs,
		Scroll:      e.scroller.advance(deltaMs),
		Viewport:    e.scroller.Viewport(),
	}
	e.current = ctx

	if e.debug {
		stats.scrollTime = time.Since(t0)
		t0 = time.Now()
	}
	stats.fired = e.triggers.evaluate(ctx)
	if !e.started {
		return
	}
	if e.debug {
		stats.triggerTime = time.Since(t0)
		t0 = time.Now()
	}
	stats.bindingWrites = e.bindings.evaluate(ctx)
	if !e.started {
		return
	}
	if e.debug {
		stats.bindingTime = time.Since(t0)
		t0 = time.Now()
	}
	stats.seeks = e.media.evaluate(ctx)
	if !e.started {
		return
	}
	if e.debug {
		stats.mediaTime = time.Since(t0)
	}
	e.tickSubs.dispatch(e, ctx)

	if e.debug {
		stats.triggers = e.triggers.list.len()
		stats.bindings = e.bindings.list.len()
		stats.scrubs = e.media.list.len()
		e.debugLog(ctx, stats)
	}
}

// RegisterBinding adds a scroll-coupled binding. It is evaluated from the
// next tick on.
func (e *Engine) RegisterBinding(spec BindingSpec) (Handle, error) {
	b, err := newBinding(spec)
	if err != nil {
		return Handle{}, err
	}
	id := e.bindings.list.add(b)
	return Handle{id: id, kind: kindBinding, reg: &e.bindings}, nil
}

// RegisterTrigger adds a viewport trigger gate. A reveal's hidden values are
// written immediately.
func (e *Engine) RegisterTrigger(spec TriggerSpec) (Handle, error) {
	g, err := newGate(spec)
	if err != nil {
		return Handle{}, err
	}
	id := e.triggers.list.add(g)
	return Handle{id: id, kind: kindTrigger, reg: &e.triggers}, nil
}

// RegisterMediaScrub takes ownership of spec.Media and suspends its
// playback until the returned handle is removed.
func (e *Engine) RegisterMediaScrub(spec MediaScrubSpec) (Handle, error) {
	m, err := newMediaScrub(spec)
	if err != nil {
		return Handle{}, err
	}
	id := e.media.list.add(m)
	if err := e.media.claim(id, m); err != nil {
		m.released = true
		e.media.list.remove(id)
		return Handle{}, err
	}
	return Handle{id: id, kind: kindMedia, reg: &e.media}, nil
}

// OnTick registers fn to run at the end of every tick, after all stages.
func (e *Engine) OnTick(fn func(TickContext)) Handle {
	id := e.tickSubs.list.add(fn)
	return Handle{id: id, kind: kindTick, reg: &e.tickSubs}
}

// Unregister removes a registration; equivalent to h.Remove().
func (e *Engine) Unregister(h Handle) {
	h.Remove()
}

// BindingProgress returns the clamped, pre-easing progress computed for a
// binding on the last tick.
func (e *Engine) BindingProgress(h Handle) (float64, bool) {
	if h.kind != kindBinding || h.reg != &e.bindings {
		return 0, false
	}
	b, ok := e.bindings.list.get(h.id)
	if !ok {
		return 0, false
	}
	return b.progress, true
}

// GateStatus returns the state of a trigger gate.
func (e *Engine) GateStatus(h Handle) (GateStatus, bool) {
	if h.kind != kindTrigger || h.reg != &e.triggers {
		return GateStatus{}, false
	}
	g, ok := e.triggers.list.get(h.id)
	if !ok {
		return GateStatus{}, false
	}
	return GateStatus{State: g.state(), Fires: g.fires}, true
}

// ScrubStatus returns the state of a media scrub.
func (e *Engine) ScrubStatus(h Handle) (ScrubStatus, bool) {
	if h.kind != kindMedia || h.reg != &e.media {
		return ScrubStatus{}, false
	}
	m, ok := e.media.list.get(h.id)
	if !ok {
		return ScrubStatus{}, false
	}
	return m.status(), true
}

// tickRegistry holds OnTick subscribers.
type tickRegistry struct {
	list entryList[func(TickContext)]
}

func (r *tickRegistry) remove(id uint32) bool {
	return r.list.remove(id)
}

func (r *tickRegistry) dispatch(e *Engine, ctx TickContext) {
	r.list.each(func(id uint32, fn func(TickContext)) bool {
		if !e.started {
			return true
		}
		var err error
		func() {
			defer recoverCallback(&err)
			fn(ctx)
		}()
		if err != nil {
			e.warnf("tick subscriber #%d dropped: %v", id, err)
			return false
		}
		return true
	})
}
