package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
)

// Journal is an in-memory Upstream that keeps the events of a run. It stands
// in for NATS when no server is configured.
type Journal struct {
	mu          sync.RWMutex
	subscribers []chan Event
	events      []Event
	maxEvents   int
}

// NewJournal keeps at most maxEvents of the most recent events (100 if <= 0)
func NewJournal(maxEvents int) *Journal {
	if maxEvents <= 0 {
		maxEvents = 100
	}
	return &Journal{
		subscribers: make([]chan Event, 0),
		events:      make([]Event, 0),
		maxEvents:   maxEvents,
	}
}

// Publish records the event and delivers it to subscribers
func (j *Journal) Publish(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, event)
	if len(j.events) > j.maxEvents {
		j.events = j.events[len(j.events)-j.maxEvents:]
	}

	for _, sub := range j.subscribers {
		select {
		case sub <- event:
		default:
			logger.Warn("Journal: skipping slow subscriber", "event_type", event.Type)
		}
	}
}

// Subscribe creates a subscription channel
func (j *Journal) Subscribe() chan Event {
	ch := make(chan Event, 100)

	j.mu.Lock()
	j.subscribers = append(j.subscribers, ch)
	j.mu.Unlock()

	return ch
}

// Unsubscribe removes and closes a subscription channel
func (j *Journal) Unsubscribe(ch chan Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, sub := range j.subscribers {
		if sub == ch {
			j.subscribers = append(j.subscribers[:i], j.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Events returns the recorded events, oldest first
func (j *Journal) Events() []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]Event(nil), j.events...)
}

// Close closes all subscriptions
func (j *Journal) Close() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, sub := range j.subscribers {
		close(sub)
	}
	j.subscribers = nil
}
