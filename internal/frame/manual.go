package frame

import (
	"sort"
	"sync"
	"time"
)

// ManualHost is a Host with a virtual clock. Each Advance is one display
// refresh: it fires every callback queued before the call.
type ManualHost struct {
	mu    sync.Mutex
	now   time.Duration
	next  Handle
	queue map[Handle]func(time.Duration)
}

func NewManualHost() *ManualHost {
	return &ManualHost{queue: make(map[Handle]func(time.Duration))}
}

func (h *ManualHost) Now() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *ManualHost) RequestFrame(cb func(now time.Duration)) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.queue[h.next] = cb
	return h.next
}

func (h *ManualHost) CancelFrame(id Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.queue, id)
}

// Advance moves the clock by d and runs the callbacks that were queued before
// the call, in request order. It returns how many ran.
func (h *ManualHost) Advance(d time.Duration) int {
	h.mu.Lock()
	h.now += d
	now := h.now
	ids := make([]Handle, 0, len(h.queue))
	for id := range h.queue {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	h.mu.Unlock()

	fired := 0
	for _, id := range ids {
		h.mu.Lock()
		cb, ok := h.queue[id]
		delete(h.queue, id)
		h.mu.Unlock()
		if !ok {
			continue
		}
		cb(now)
		fired++
	}
	return fired
}

// Run advances n refreshes of interval each.
func (h *ManualHost) Run(n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		h.Advance(interval)
	}
}

func (h *ManualHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}
