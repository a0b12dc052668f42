package scrollfx

import "fmt"

// GateMode selects whether a trigger gate fires once or on every entry.
type GateMode uint8

const (
	GateOnce   GateMode = iota // fire on first entry, then never again
	GateRepeat                 // re-arm on exit, fire on every entry
)

// GateState is the position of a trigger gate in its state machine.
type GateState uint8

const (
	GateUnarmed GateState = iota // never entered
	GateArmed                    // waiting for an entry
	GateFired                    // fired and not yet re-armed
)

func (s GateState) String() string {
	switch s {
	case GateArmed:
		return "armed"
	case GateFired:
		return "fired"
	}
	return "unarmed"
}

// TriggerSpec declares a viewport trigger.
type TriggerSpec struct {
	// Trigger is the element whose viewport membership is watched.
	Trigger Element
	// EnterMargin grows the viewport on both ends of the scroll axis before
	// testing membership. Negative values shrink it, so the element must be
	// further inside before it counts.
	EnterMargin float64
	Mode        GateMode
	// OnEnter runs when the gate fires; OnExit when a repeat gate re-arms.
	OnEnter func(TickContext)
	OnExit  func(TickContext)
	// Reveal, when set, is played forward on every fire and backward on
	// every repeat exit.
	Reveal *RevealSpec
}

// GateStatus reports a gate's state and how many times it fired.
type GateStatus struct {
	State GateState
	Fires int
}

type gate struct {
	trigger Element
	margin  float64
	mode    GateMode
	onEnter func(TickContext)
	onExit  func(TickContext)
	reveal  *revealGroup

	armed   bool
	fired   bool
	fires   int
	removed bool
}

func (g *gate) state() GateState {
	switch {
	case g.fired:
		return GateFired
	case g.armed:
		return GateArmed
	}
	return GateUnarmed
}

// triggerRegistry evaluates gates once per tick, right after the scroll
// position update.
type triggerRegistry struct {
	e    *Engine
	list entryList[*gate]
}

func (r *triggerRegistry) remove(id uint32) bool {
	if g, ok := r.list.get(id); ok {
		g.removed = true
	}
	return r.list.remove(id)
}

func newGate(spec TriggerSpec) (*gate, error) {
	if spec.Trigger == nil {
		return nil, &ConfigurationError{Field: "trigger element", Reason: "required"}
	}
	if !finite(spec.EnterMargin) {
		return nil, &ConfigurationError{Field: "trigger enterMargin", Reason: "must be finite"}
	}
	if spec.Mode > GateRepeat {
		return nil, &ConfigurationError{Field: "trigger mode", Reason: fmt.Sprintf("unknown mode %d", spec.Mode)}
	}
	g := &gate{
		trigger: spec.Trigger,
		margin:  spec.EnterMargin,
		mode:    spec.Mode,
		onEnter: spec.OnEnter,
		onExit:  spec.OnExit,
	}
	if spec.Reveal != nil {
		rg, err := newRevealGroup(*spec.Reveal)
		if err != nil {
			return nil, err
		}
		g.reveal = rg
		rg.hide()
	}
	return g, nil
}

// inView reports whether the gate's element overlaps the tick's viewport
// grown by the gate's margin, along the scroll axis.
func (g *gate) inView(ctx TickContext, o Orientation) bool {
	vs, vl := ctx.Viewport.Grow(g.margin).span(o)
	es, el := g.trigger.Bounds().span(o)
	return es <= vs+vl && es+el >= vs
}

// evaluate steps every gate's state machine and advances running reveals.
func (r *triggerRegistry) evaluate(ctx TickContext) (fired int) {
	o := r.e.orientation()
	dt := float32(ctx.DeltaMs / 1000)
	r.list.each(func(id uint32, g *gate) bool {
		if !r.e.started {
			return true
		}
		if !g.trigger.Mounted() {
			r.e.debugf("%v", staleReferenceError{kind: kindTrigger, id: id})
			return false
		}
		in := g.inView(ctx, o)
		var err error
		switch {
		case in && !g.fired:
			// unarmed -> armed -> fired within this tick.
			g.armed = true
			err = r.fire(id, g, ctx)
			fired++
		case !in && g.fired && g.mode == GateRepeat:
			err = r.rearm(id, g, ctx)
		}
		if err != nil {
			r.e.warnf("trigger #%d dropped: %v", id, err)
			return false
		}
		// The callback may have unregistered this gate.
		if g.removed {
			return true
		}
		if g.reveal != nil {
			g.reveal.update(dt)
		}
		return true
	})
	return fired
}

func (r *triggerRegistry) fire(id uint32, g *gate, ctx TickContext) (err error) {
	g.armed = false
	g.fired = true
	g.fires++
	r.e.debugf("trigger #%d fired (%d)", id, g.fires)
	if g.reveal != nil {
		g.reveal.play(true)
	}
	if g.onEnter != nil {
		defer recoverCallback(&err)
		g.onEnter(ctx)
	}
	return nil
}

func (r *triggerRegistry) rearm(id uint32, g *gate, ctx TickContext) (err error) {
	g.fired = false
	g.armed = true
	r.e.debugf("trigger #%d re-armed", id)
	if g.reveal != nil {
		g.reveal.play(false)
	}
	if g.onExit != nil {
		defer recoverCallback(&err)
		g.onExit(ctx)
	}
	return nil
}

func recoverCallback(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("callback panic: %v", rec)
	}
}
