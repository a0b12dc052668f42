package scrollfx

// handleKind identifies which registry a Handle belongs to.
type handleKind uint8

const (
	kindNone handleKind = iota
	kindBinding
	kindTrigger
	kindMedia
	kindTick
	kindClock
)

func (k handleKind) String() string {
	switch k {
	case kindBinding:
		return "binding"
	case kindTrigger:
		return "trigger"
	case kindMedia:
		return "media scrub"
	case kindTick:
		return "tick subscriber"
	case kindClock:
		return "clock subscriber"
	}
	return "handle"
}

// remover is implemented by every registry a Handle can point into.
type remover interface {
	remove(id uint32) bool
}

// Handle identifies a registration. The zero Handle is valid and inert.
type Handle struct {
	id   uint32
	kind handleKind
	reg  remover
}

// Remove unregisters the entry. It is safe to call more than once and
// during a tick; a removed entry never fires or writes again.
func (h Handle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}

// ID returns the registration's numeric id, or 0 for the zero Handle.
func (h Handle) ID() uint32 {
	return h.id
}

// Valid reports whether h was returned by a successful registration.
func (h Handle) Valid() bool {
	return h.reg != nil
}

// entryList is an ordered list of registrations that tolerates removal
// while it is being iterated: removed entries are tombstoned and compacted
// by sweep once the iteration is over.
type entryList[T any] struct {
	items   []entry[T]
	nextID  uint32
	walking int
	dirty   bool
}

type entry[T any] struct {
	id      uint32
	removed bool
	val     T
}

func (l *entryList[T]) add(v T) uint32 {
	l.nextID++
	l.items = append(l.items, entry[T]{id: l.nextID, val: v})
	return l.nextID
}

// remove tombstones the entry with id. It reports whether a live entry was
// found.
func (l *entryList[T]) remove(id uint32) bool {
	for i := range l.items {
		if l.items[i].id == id {
			if l.items[i].removed {
				return false
			}
			l.items[i].removed = true
			l.dirty = true
			if l.walking == 0 {
				l.sweep()
			}
			return true
		}
	}
	return false
}

func (l *entryList[T]) get(id uint32) (T, bool) {
	for i := range l.items {
		if l.items[i].id == id && !l.items[i].removed {
			return l.items[i].val, true
		}
	}
	var zero T
	return zero, false
}

// each calls fn for every live entry in registration order. Entries added
// during the walk are not visited until the next walk. Returning false from
// fn tombstones the entry.
func (l *entryList[T]) each(fn func(id uint32, v T) bool) {
	l.walking++
	n := len(l.items)
	for i := 0; i < n; i++ {
		if l.items[i].removed {
			continue
		}
		if !fn(l.items[i].id, l.items[i].val) {
			// fn may have appended; index i is still this entry.
			l.items[i].removed = true
			l.dirty = true
		}
	}
	l.walking--
	if l.walking == 0 {
		l.sweep()
	}
}

func (l *entryList[T]) len() int {
	n := 0
	for i := range l.items {
		if !l.items[i].removed {
			n++
		}
	}
	return n
}

func (l *entryList[T]) sweep() {
	if !l.dirty {
		return
	}
	out := l.items[:0]
	for _, e := range l.items {
		if !e.removed {
			out = append(out, e)
		}
	}
	var zero entry[T]
	for i := len(out); i < len(l.items); i++ {
		l.items[i] = zero
	}
	l.items = out
	l.dirty = false
}
