package sensord

import (
	"sync"

	"github.com/google/uuid"

	"github.com/thermolineco/thermoline/pkg/sensor"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing readings rather than stalling
// the generator.
const subscriberBuffer = 16

// hub fans readings out to stream subscribers.
type hub struct {
	mu   sync.Mutex
	subs map[string]chan sensor.Reading
}

func newHub() *hub {
	return &hub{subs: make(map[string]chan sensor.Reading)}
}

// subscribe registers a new subscriber and returns its channel along with
// an unsubscribe function. The channel is closed on unsubscribe.
func (h *hub) subscribe() (<-chan sensor.Reading, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan sensor.Reading, subscriberBuffer)
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

// broadcast delivers a reading to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (h *hub) broadcast(r sensor.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// count returns the number of active subscribers.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
