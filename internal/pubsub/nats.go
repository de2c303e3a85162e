package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
)

// NATSPubSub publishes outcome events to a NATS subject
type NATSPubSub struct {
	nc          *nats.Conn
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

// NewNATSPubSub connects to natsURL. Events are published on subject.
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("hoops-swap"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS", "url", nc.ConnectedUrl(), "subject", subject)

	return &NATSPubSub{
		nc:          nc,
		subject:     subject,
		subscribers: make([]chan Event, 0),
	}, nil
}

// Publish sends the event to NATS and to local subscribers
func (p *NATSPubSub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "type", event.Type, "error", err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, sub := range p.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

// Subscribe creates a local subscription channel
func (p *NATSPubSub) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()

	return ch
}

// Unsubscribe removes a local subscription channel
func (p *NATSPubSub) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close flushes pending publishes and closes the connection
func (p *NATSPubSub) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil

	if p.nc != nil {
		if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
			logger.Warn("NATS flush failed", "error", err)
		}
		p.nc.Close()
	}
}
