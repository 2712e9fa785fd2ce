package surface

import (
	"sort"
	"sync"
)

// ResizeEvents delivers viewport or element resize notifications.
type ResizeEvents interface {
	OnResize(fn func()) (cancel func())
}

// Reactor re-runs Surface.Resize at attach and on every resize event, and
// reports each new non-degenerate size.
type Reactor struct {
	surf   *Surface
	onSize func(Size)
	cancel func()
}

func Attach(surf *Surface, events ResizeEvents, onSize func(Size)) *Reactor {
	r := &Reactor{surf: surf, onSize: onSize}
	r.handle()
	if events != nil {
		r.cancel = events.OnResize(r.handle)
	}
	return r
}

func (r *Reactor) handle() {
	// no surface or zero area: keep the last good size until a usable one arrives
	size, err := r.surf.Resize()
	if err != nil {
		return
	}
	if r.onSize != nil {
		r.onSize(size)
	}
}

// Detach removes the resize listener. Safe to call more than once.
func (r *Reactor) Detach() {
	if r == nil || r.cancel == nil {
		return
	}
	cancel := r.cancel
	r.cancel = nil
	cancel()
}

// Listeners is a ResizeEvents implementation for host elements.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (l *Listeners) OnResize(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// Notify runs every registered listener in registration order.
func (l *Listeners) Notify() {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
