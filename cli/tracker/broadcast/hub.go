package broadcast

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

const defaultQueueSize = 32

// Subscriber is one connected observer. Updates are read from the channel
// returned by Updates; the channel is closed when the subscriber is removed
// from the hub, either by Unsubscribe or because it fell too far behind.
type Subscriber struct {
	ch chan *model.VehicleState
}

// Updates returns the subscriber's delivery channel. Events arrive in the
// order they were published.
func (s *Subscriber) Updates() <-chan *model.VehicleState {
	return s.ch
}

// Hub fans accepted updates out to every connected subscriber. Each
// subscriber owns a bounded queue; a subscriber whose queue is full is
// dropped so one slow observer cannot block delivery to the rest. There is
// no replay: a subscriber only sees events published after it joined.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	queueSize   int
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		queueSize:   queueSize,
	}
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{ch: make(chan *model.VehicleState, h.queueSize)}
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// more than once and safe to call for a subscriber the hub already dropped.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.ch)
	}
	h.mu.Unlock()
}

// Publish delivers the state to every connected subscriber without blocking.
// A subscriber with a full queue is disconnected.
func (h *Hub) Publish(state *model.VehicleState) {
	h.mu.Lock()
	for s := range h.subscribers {
		select {
		case s.ch <- state:
		default:
			delete(h.subscribers, s)
			close(s.ch)
			log.Warn("dropping slow broadcast subscriber")
		}
	}
	h.mu.Unlock()
}

// Len reports the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
