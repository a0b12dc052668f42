package scrollfx

import (
	"fmt"
	"io"
	"time"
)

// debugStats holds per-tick stage timings and counts.
// Only populated when Engine.debug is true.
type debugStats struct {
	scrollTime  time.Duration
	triggerTime time.Duration
	bindingTime time.Duration
	mediaTime   time.Duration

	fired         int
	bindingWrites int
	seeks         int
	triggers      int
	bindings      int
	scrubs        int
}

// SetDebugMode enables or disables debug mode. When enabled, per-tick stage
// timings, prune notices and trigger transitions are logged.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// SetLogOutput redirects engine logging. Nil discards it.
func (e *Engine) SetLogOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	e.logOut = w
}

// warnf logs a problem that the engine recovered from. Always printed.
func (e *Engine) warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.logOut, "[scrollfx] warning: "+format+"\n", args...)
}

// debugf logs only in debug mode.
func (e *Engine) debugf(format string, args ...any) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(e.logOut, "[scrollfx] "+format+"\n", args...)
}

// debugLog prints the tick's scroll state and stage stats.
func (e *Engine) debugLog(ctx TickContext, stats debugStats) {
	if !e.debug {
		return
	}
	total := stats.scrollTime + stats.triggerTime + stats.bindingTime + stats.mediaTime
	_, _ = fmt.Fprintf(e.logOut,
		"[scrollfx] t=%.1fms dt=%.2fms pos=%.2f/%.2f vel=%.4f %s\n",
		ctx.TimestampMs, ctx.DeltaMs, ctx.Scroll.Position, ctx.Scroll.MaxPosition,
		ctx.Scroll.Velocity, ctx.Scroll.Direction)
	_, _ = fmt.Fprintf(e.logOut,
		"[scrollfx] scroll: %v | triggers: %v | bindings: %v | media: %v | total: %v\n",
		stats.scrollTime, stats.triggerTime, stats.bindingTime, stats.mediaTime, total)
	_, _ = fmt.Fprintf(e.logOut,
		"[scrollfx] gates: %d (fired %d) | bindings: %d (writes %d) | scrubs: %d (seeks %d)\n",
		stats.triggers, stats.fired, stats.bindings, stats.bindingWrites, stats.scrubs, stats.seeks)
}
