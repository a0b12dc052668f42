package scrollfx

import (
	"fmt"
	"math"
	"sort"
)

// ChannelSpec describes how a binding writes one channel.
//
// With Keyframes set, the eased progress is interpolated through them.
// Otherwise Range maps it linearly; a zero Range writes the eased progress
// itself.
type ChannelSpec struct {
	Channel   Channel
	Range     Range
	Keyframes []Keyframe
}

// BindingSpec declares a scroll-coupled effect.
type BindingSpec struct {
	// Trigger is the element the binding belongs to; when it unmounts the
	// binding is pruned. Required for ElementDomain, optional otherwise.
	Trigger Element
	// Target receives the writes. Nil uses Trigger when it implements Target.
	Target Target
	// Domain is the stretch of scroll mapped onto progress 0..1.
	Domain Domain
	// Channels lists the outputs. At least one is required; each channel
	// may appear once.
	Channels []ChannelSpec
	// Ease shapes the clamped progress. Nil is Linear.
	Ease EaseFunc
	// Once latches the binding at its end value the first time progress
	// reaches 1. The default re-evaluates in both directions on every tick.
	Once bool
	// Spring, when set, makes every channel chase its eased value with a
	// damped spring. Spring-driven outputs may overshoot their range.
	Spring *Spring
}

type binding struct {
	trigger  Element
	target   Target
	domain   Domain
	channels []ChannelSpec
	ease     EaseFunc
	once     bool
	spring   *Spring
	springs  []springState

	progress float64
	latched  bool
}

func (b *binding) mounted() bool {
	if b.trigger != nil && !b.trigger.Mounted() {
		return false
	}
	if el, ok := b.target.(Element); ok && !el.Mounted() {
		return false
	}
	return true
}

// bindingRegistry holds active bindings in registration order.
type bindingRegistry struct {
	e    *Engine
	list entryList[*binding]
}

func (r *bindingRegistry) remove(id uint32) bool {
	return r.list.remove(id)
}

func newBinding(spec BindingSpec) (*binding, error) {
	target := spec.Target
	if target == nil {
		if t, ok := spec.Trigger.(Target); ok {
			target = t
		}
	}
	if target == nil {
		return nil, &ConfigurationError{Field: "binding target", Reason: "no target and trigger is not a Target"}
	}
	if err := spec.Domain.validate("binding domain", spec.Trigger); err != nil {
		return nil, err
	}
	if len(spec.Channels) == 0 {
		return nil, &ConfigurationError{Field: "binding channels", Reason: "at least one channel is required"}
	}
	var seen [channelCount]bool
	channels := make([]ChannelSpec, len(spec.Channels))
	for i, cs := range spec.Channels {
		if cs.Channel >= channelCount {
			return nil, &ConfigurationError{Field: "binding channels", Reason: fmt.Sprintf("unknown channel %d", cs.Channel)}
		}
		if seen[cs.Channel] {
			return nil, &ConfigurationError{Field: "binding channels", Reason: "duplicate channel " + cs.Channel.String()}
		}
		seen[cs.Channel] = true
		if !finite(cs.Range.From) || !finite(cs.Range.To) {
			return nil, &ConfigurationError{Field: "binding channels", Reason: cs.Channel.String() + " range must be finite"}
		}
		if len(cs.Keyframes) > 0 {
			kf := append([]Keyframe(nil), cs.Keyframes...)
			sort.SliceStable(kf, func(a, b int) bool { return kf[a].At < kf[b].At })
			for _, k := range kf {
				if !finite(k.At) || !finite(k.Value) || k.At < 0 || k.At > 1 {
					return nil, &ConfigurationError{Field: "binding keyframes", Reason: fmt.Sprintf("keyframe %+v outside [0, 1] or not finite", k)}
				}
			}
			cs.Keyframes = kf
		}
		channels[i] = cs
	}
	if sp := spec.Spring; sp != nil {
		if !finite(sp.Stiffness) || sp.Stiffness <= 0 || !finite(sp.Damping) || sp.Damping < 0 || !finite(sp.Mass) || sp.Mass < 0 {
			return nil, &ConfigurationError{Field: "binding spring", Reason: "stiffness must be > 0, damping and mass >= 0"}
		}
	}
	fn := spec.Ease
	if fn == nil {
		fn = Linear
	}
	b := &binding{
		trigger:  spec.Trigger,
		target:   target,
		domain:   spec.Domain,
		channels: channels,
		ease:     fn,
		once:     spec.Once,
		spring:   spec.Spring,
	}
	if b.spring != nil {
		b.springs = make([]springState, len(channels))
	}
	return b, nil
}

// evaluate writes every live binding once, in registration order.
func (r *bindingRegistry) evaluate(ctx TickContext) (written int) {
	o := r.e.orientation()
	r.list.each(func(id uint32, b *binding) bool {
		if !r.e.started {
			return true
		}
		if !b.mounted() {
			r.e.debugf("%v", staleReferenceError{kind: kindBinding, id: id})
			return false
		}
		if b.latched {
			return true
		}
		if err := b.apply(ctx, o); err != nil {
			r.e.warnf("binding #%d dropped: %v", id, err)
			return false
		}
		written++
		return true
	})
	return written
}

// apply computes the binding's progress and writes its channels. A panic in
// user easing is turned into an error so one binding cannot stop the loop.
func (b *binding) apply(ctx TickContext, o Orientation) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	p := b.domain.progress(ctx, b.trigger, o)
	b.progress = p
	eased := b.ease(p)
	if math.IsNaN(eased) || math.IsInf(eased, 0) {
		return fmt.Errorf("easing returned %v for progress %v", eased, p)
	}

	for i, cs := range b.channels {
		var v float64
		switch {
		case len(cs.Keyframes) > 0:
			v = interpolateKeyframes(cs.Keyframes, eased)
		case cs.Range == (Range{}):
			v = eased
		default:
			v = cs.Range.Lerp(eased)
		}
		if b.spring != nil {
			v = b.springs[i].step(*b.spring, v, ctx.DeltaMs/1000)
		}
		b.target.SetChannel(cs.Channel, v)
	}

	if b.once && p >= 1 && b.spring == nil {
		b.latched = true
	}
	return nil
}
