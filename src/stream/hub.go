package stream

import (
	"sync"

	logger "github.com/sirupsen/logrus"
)

const (
	EventTrade     = "trade"
	EventLog       = "log"
	EventPortfolio = "portfolio"
	EventConfig    = "config"
)

// Event announces a committed write on a session.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	ID        uint        `json:"id"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub fans committed writes out to the subscribers of each session.
// Publishing never blocks: a subscriber whose buffer is full is dropped.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscriber]struct{}
	buffer int
	closed bool
}

// Subscriber receives the events of one session until it is closed or dropped.
type Subscriber struct {
	hub       *Hub
	sessionID string
	events    chan Event
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[*Subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber for sessionID. On a closed hub the
// returned subscriber's channel is already closed.
func (h *Hub) Subscribe(sessionID string) *Subscriber {
	sub := &Subscriber{
		hub:       h,
		sessionID: sessionID,
		events:    make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.events)
		return sub
	}

	set, ok := h.subs[sessionID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[sessionID] = set
	}
	set[sub] = struct{}{}

	return sub
}

// Publish delivers ev to every subscriber of ev.SessionID.
func (h *Hub) Publish(ev Event) {
	var slow []*Subscriber

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	for sub := range h.subs[ev.SessionID] {
		select {
		case sub.events <- ev:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		logger.WithFields(map[string]interface{}{
			"component":  "Hub",
			"session_id": ev.SessionID,
		}).Warn("Dropping slow stream subscriber")

		sub.Close()
	}
}

// Subscribers reports how many subscribers sessionID currently has.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

// Close disconnects every subscriber. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for sessionID, set := range h.subs {
		for sub := range set {
			close(sub.events)
		}
		delete(h.subs, sessionID)
	}
}

// Events is closed once the subscriber is closed, dropped or the hub shuts down.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscriber) Close() {
	h := s.hub

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[s.sessionID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}

	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.sessionID)
	}
	close(s.events)
}
