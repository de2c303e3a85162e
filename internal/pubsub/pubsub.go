package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// Outcome event types published once per run by the selector
const (
	EventSwapRecommended = "swap:recommended"
	EventSwapCommitted   = "swap:committed"
	EventSwapSkipped     = "swap:skipped"
	EventSwapFailed      = "swap:failed"
)

// Event is one outcome notification
type Event struct {
	Type    string         `json:"type"`
	Time    time.Time      `json:"time"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewSwapEvent builds an event describing a run outcome for a team. swap may be nil.
func NewSwapEvent(eventType, teamKey string, swap *models.Swap, reason string) Event {
	payload := map[string]any{
		"teamKey": teamKey,
	}
	if swap != nil {
		payload["inId"] = swap.In.PlayerID
		payload["inName"] = swap.In.Name
		payload["outId"] = swap.OutID
		payload["outName"] = swap.OutName
		payload["delta"] = swap.Delta
		if swap.Pool != "" {
			payload["pool"] = swap.Pool
		}
	}
	if reason != "" {
		payload["reason"] = reason
	}
	return Event{Type: eventType, Time: time.Now().UTC(), Payload: payload}
}

// Upstream is an external publisher the local bus forwards to (NATS, journal)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub fans events out to in-process subscribers, optionally through an upstream
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// New creates a local-only bus
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a bus whose Publish goes to the upstream. Events the
// upstream delivers back are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	ch := upstream.Subscribe()
	go func() {
		for event := range ch {
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: upstream channel closed")
	}()

	return ps
}

// Subscribe adds a subscriber with a small buffer
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to the upstream if there is one, else to local subscribers
func (ps *PubSub) Publish(event Event) {
	logger.Debug("PubSub: publish", "type", event.Type, "hasUpstream", ps.upstream != nil)
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

func (ps *PubSub) publishLocal(event Event) {
	// sends never block, so holding the read lock keeps Unsubscribe from
	// closing a channel mid-send
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subscribers {
		select {
		case ch <- event:
		default:
			// slow subscriber
		}
	}
}
