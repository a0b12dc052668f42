package scrollfx

// InputKind identifies a raw scroll input event.
type InputKind uint8

const (
	InputWheel      InputKind = iota // wheel or trackpad delta
	InputTouchStart                  // finger down
	InputTouchMove                   // finger moved
	InputTouchEnd                    // finger up
	InputNative                      // host-reported native scroll position
)

// InputEvent is one raw input event delivered by an InputSource.
type InputEvent struct {
	Kind InputKind
	// DeltaX and DeltaY are wheel deltas in pixels; positive scrolls
	// forward.
	DeltaX, DeltaY float64
	// X, Y and TouchID describe touch events.
	X, Y    float64
	TouchID int
	// Position is the native scroll position for InputNative.
	Position float64
}

// InputSource is the host's raw input boundary. Listen registers a listener
// and returns the function that removes it. SetNativeScroll(false) asks the
// host to stop its own scrolling while the engine emulates it.
type InputSource interface {
	Listen(fn func(InputEvent)) (cancel func())
	SetNativeScroll(enabled bool)
}

// Poller is implemented by input sources that gather events once per frame.
// The engine calls Poll at the start of every tick, before the scroll
// position advances.
type Poller interface {
	Poll()
}

// listenerSet is a small listener registry shared by the input sources.
type listenerSet struct {
	list entryList[func(InputEvent)]
}

func (l *listenerSet) listen(fn func(InputEvent)) (cancel func()) {
	id := l.list.add(fn)
	return func() { l.list.remove(id) }
}

func (l *listenerSet) dispatch(ev InputEvent) {
	l.list.each(func(_ uint32, fn func(InputEvent)) bool {
		fn(ev)
		return true
	})
}

func (l *listenerSet) count() int {
	return l.list.len()
}

// InputQueue is an in-memory InputSource for hosts that push events and for
// tests. Each Poll delivers every event that was queued before it, in
// order. Touch drags injected with InjectTouchDrag are spread one event per
// Poll, mirroring how a finger moves across frames.
type InputQueue struct {
	listeners listenerSet
	queue     []queuedEvent
	frame     uint64
	native    bool
}

// queuedEvent is an event waiting for the Poll of frame due.
type queuedEvent struct {
	ev  InputEvent
	due uint64
}

// NewInputQueue creates an empty queue with native scrolling enabled.
func NewInputQueue() *InputQueue {
	return &InputQueue{native: true}
}

// Listen implements InputSource.
func (q *InputQueue) Listen(fn func(InputEvent)) (cancel func()) {
	return q.listeners.listen(fn)
}

// SetNativeScroll implements InputSource.
func (q *InputQueue) SetNativeScroll(enabled bool) {
	q.native = enabled
}

// NativeScroll reports whether native scrolling is currently enabled.
func (q *InputQueue) NativeScroll() bool {
	return q.native
}

// Listeners returns the number of registered listeners.
func (q *InputQueue) Listeners() int {
	return q.listeners.count()
}

// Pending returns the number of queued events.
func (q *InputQueue) Pending() int {
	return len(q.queue)
}

// tailDue is the frame of the last queued event, or the next frame when the
// queue is empty.
func (q *InputQueue) tailDue() uint64 {
	if n := len(q.queue); n > 0 {
		return max(q.queue[n-1].due, q.frame+1)
	}
	return q.frame + 1
}

// Push queues an event for the next Poll. Events queued behind a touch drag
// wait for the drag to finish so order is kept.
func (q *InputQueue) Push(ev InputEvent) {
	q.queue = append(q.queue, queuedEvent{ev: ev, due: q.tailDue()})
}

// InjectWheel queues a wheel event.
func (q *InputQueue) InjectWheel(dx, dy float64) {
	q.Push(InputEvent{Kind: InputWheel, DeltaX: dx, DeltaY: dy})
}

// InjectNative queues a native scroll position report.
func (q *InputQueue) InjectNative(pos float64) {
	q.Push(InputEvent{Kind: InputNative, Position: pos})
}

// InjectTouchDrag queues a full touch drag: start at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and an end
// at (toX, toY). Minimum frames is 2. The drag's events are delivered one
// per Poll, starting after anything already queued.
func (q *InputQueue) InjectTouchDrag(id int, fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	due := q.tailDue()
	if len(q.queue) > 0 {
		due++
	}
	add := func(ev InputEvent) {
		q.queue = append(q.queue, queuedEvent{ev: ev, due: due})
		due++
	}
	add(InputEvent{Kind: InputTouchStart, TouchID: id, X: fromX, Y: fromY})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		add(InputEvent{Kind: InputTouchMove, TouchID: id, X: fromX + (toX-fromX)*t, Y: fromY + (toY-fromY)*t})
	}
	add(InputEvent{Kind: InputTouchMove, TouchID: id, X: toX, Y: toY})
	add(InputEvent{Kind: InputTouchEnd, TouchID: id, X: toX, Y: toY})
}

// Poll starts a new frame and delivers every event due by it.
func (q *InputQueue) Poll() {
	q.frame++
	n := 0
	for n < len(q.queue) && q.queue[n].due <= q.frame {
		n++
	}
	if n == 0 {
		return
	}
	batch := make([]InputEvent, n)
	for i := range batch {
		batch[i] = q.queue[i].ev
	}
	q.queue = append(q.queue[:0], q.queue[n:]...)
	for _, ev := range batch {
		q.listeners.dispatch(ev)
	}
}

// Drain delivers every queued event at once.
func (q *InputQueue) Drain() {
	for len(q.queue) > 0 {
		q.Poll()
	}
}
