package app

import "sync"

// hub fans state values out to subscribers. Each subscriber holds at most
// one pending value; a newer value replaces an unread one so a slow reader
// never blocks the publisher and always sees the latest state.
type hub[T any] struct {
	mu   sync.Mutex
	subs map[uint64]chan T
	next uint64
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[uint64]chan T)}
}

// subscribe registers a subscriber primed with current. The returned func
// unsubscribes and closes the channel; calling it twice is safe.
func (h *hub[T]) subscribe(current T) (<-chan T, func()) {
	ch := make(chan T, 1)
	ch <- current

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

func (h *hub[T]) publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}

		ch <- v
	}
}

// closeAll ends every current subscription. New subscriptions are still accepted.
func (h *hub[T]) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
