// Package messaging runs an embedded NATS server and carries outbound events
// to connected players over per-player subjects.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var errNotStarted = errors.New("nats server not started")

// NatsServer is safe to use from other goroutines while Start is still
// bringing it up: Subscribe, Publish and Flush wait up to the startup timeout
// for the connection.
type NatsServer struct {
	ns *server.Server

	// conn is written once, before ready is closed.
	conn    *nats.Conn
	ready   chan struct{}
	stopped chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		ready:          make(chan struct{}),
		stopped:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoLog:  true,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

// Start runs the server until ctx is cancelled.
func (n *NatsServer) Start(ctx context.Context) error {
	defer close(n.stopped)

	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn = conn
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the server accepts publishes and subscriptions.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// connection waits for Start to connect the internal client. It gives up when
// Start exits first or the startup timeout passes.
func (n *NatsServer) connection() (*nats.Conn, error) {
	select {
	case <-n.ready:
		return n.conn, nil
	default:
	}

	timer := time.NewTimer(n.startupTimeout)
	defer timer.Stop()

	select {
	case <-n.ready:
		return n.conn, nil
	case <-n.stopped:
	case <-timer.C:
	}

	// Start may have connected and then stopped.
	select {
	case <-n.ready:
		return n.conn, nil
	default:
		return nil, errNotStarted
	}
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn, err := n.connection()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("unsubscribing", "subject", subject, "error", err)
		}
	}, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn, err := n.connection()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}

// Flush blocks until every publish so far has been processed by the server.
func (n *NatsServer) Flush() error {
	conn, err := n.connection()
	if err != nil {
		return err
	}
	return conn.Flush()
}
