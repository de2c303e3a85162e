package pubsub

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
)

// EmbeddedNATSPubSub runs an in-process NATS server and publishes to it, so
// development runs exercise the same path as a real broker.
type EmbeddedNATSPubSub struct {
	*NATSPubSub
	server *server.Server
}

// NewEmbeddedNATSPubSub starts a server on a random local port and connects to it
func NewEmbeddedNATSPubSub(subject string) (*EmbeddedNATSPubSub, error) {
	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   server.RANDOM_PORT,
		NoSigs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(&natsLogger{}, false, false)

	// Start server in background
	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}
	logger.Info("Embedded NATS server started", "url", ns.ClientURL())

	// Connect to the embedded server
	ps, err := NewNATSPubSub(ns.ClientURL(), subject)
	if err != nil {
		ns.Shutdown()
		return nil, err
	}

	return &EmbeddedNATSPubSub{NATSPubSub: ps, server: ns}, nil
}

// ServerURL returns the client URL of the embedded server
func (p *EmbeddedNATSPubSub) ServerURL() string {
	return p.server.ClientURL()
}

// Close closes the connection and shuts the server down
func (p *EmbeddedNATSPubSub) Close() {
	p.NATSPubSub.Close()
	p.server.Shutdown()
	p.server.WaitForShutdown()
	logger.Debug("Embedded NATS server shut down")
}

// natsLogger routes server logs through our logger
type natsLogger struct{}

func (l *natsLogger) Noticef(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Fatalf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Errorf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Tracef(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS TRACE] "+format, v...))
}
