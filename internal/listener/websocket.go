package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWriteWait     = 10 * time.Second
	DefaultMaxFrameBytes = 64 * 1024

	shutdownTimeout = 5 * time.Second
)

// SessionHost is the part of session.Coordinator a transport drives.
type SessionHost interface {
	Join(ctx context.Context, id session.Identity) (*session.Session, error)
	Handle(ctx context.Context, s *session.Session, raw []byte)
	Leave(ctx context.Context, s *session.Session) error
}

// WebsocketListener serves JSON event frames at /ws and, when a gatherer is
// configured, Prometheus metrics at /metrics.
type WebsocketListener struct {
	port      uint16
	host      SessionHost
	gatherer  prometheus.Gatherer
	writeWait time.Duration
	maxFrame  int64

	upgrader websocket.Upgrader

	wg      sync.WaitGroup
	connCtx context.Context
	cancel  context.CancelFunc
}

type WebsocketOpt func(*WebsocketListener)

func WithGatherer(g prometheus.Gatherer) WebsocketOpt {
	return func(l *WebsocketListener) {
		l.gatherer = g
	}
}

func WithWriteWait(d time.Duration) WebsocketOpt {
	return func(l *WebsocketListener) {
		l.writeWait = d
	}
}

func WithMaxFrameBytes(n int64) WebsocketOpt {
	return func(l *WebsocketListener) {
		l.maxFrame = n
	}
}

func NewWebsocketListener(port uint16, host SessionHost, opts ...WebsocketOpt) *WebsocketListener {
	l := &WebsocketListener{
		port:      port,
		host:      host,
		writeWait: DefaultWriteWait,
		maxFrame:  DefaultMaxFrameBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.connCtx, l.cancel = context.WithCancel(context.Background())
	return l
}

// Handler routes /ws and /metrics.
func (l *WebsocketListener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.serveWS)
	if l.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(l.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           l.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.InfoContext(ctx, "listening for websocket", "port", l.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
		}
		return nil
	})
	g.Go(func() error {
		// Runs on shutdown or when the server fails to listen.
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		l.Close()
		if err != nil {
			return fmt.Errorf("shutting down websocket server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close disconnects every open socket and waits for their sessions to end.
func (l *WebsocketListener) Close() {
	l.cancel()
	l.wg.Wait()
}

// identity reads who is connecting from headers, falling back to query
// parameters for browsers that cannot set headers on a websocket.
func identity(r *http.Request) session.Identity {
	q := r.URL.Query()
	pick := func(header, param string) string {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return v
		}
		return strings.TrimSpace(q.Get(param))
	}

	return session.Identity{
		PlayerId: strings.ToLower(pick("X-Player-Id", "player")),
		Name:     pick("X-Player-Name", "name"),
		Race:     strings.ToLower(q.Get("race")),
		Class:    strings.ToLower(q.Get("class")),
	}
}

func (l *WebsocketListener) serveWS(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if id.PlayerId == "" {
		http.Error(w, "player id required", http.StatusUnauthorized)
		return
	}

	if l.connCtx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	l.wg.Add(1)
	defer l.wg.Done()
	ctx := l.connCtx

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s, err := l.host.Join(ctx, id)
	if err != nil {
		reason := "Unable to join."
		var ae *game.ActionError
		if errors.As(err, &ae) {
			reason = ae.Message
		} else {
			slog.WarnContext(ctx, "websocket join", "player", id.PlayerId, "error", err)
		}
		l.closeWith(conn, websocket.ClosePolicyViolation, reason)
		return
	}
	defer func() {
		if err := l.host.Leave(context.WithoutCancel(ctx), s); err != nil {
			slog.ErrorContext(ctx, "leaving session", "player", s.PlayerId, "error", err)
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		l.writeLoop(ctx, conn, s)
	}()

	conn.SetReadLimit(l.maxFrame)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "websocket read", "player", s.PlayerId, "error", err)
			}
			break
		}
		l.host.Handle(ctx, s, data)
	}

	// Unblock the writer if the read side ended first.
	conn.Close()
	<-writerDone
}

// writeLoop forwards the session's outbound frames until the session or the
// listener closes, then closes the socket.
func (l *WebsocketListener) writeLoop(ctx context.Context, conn *websocket.Conn, s *session.Session) {
	write := func(data []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(l.writeWait)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	for {
		select {
		case data := <-s.Outbound():
			if err := write(data); err != nil {
				slog.DebugContext(ctx, "websocket write", "player", s.PlayerId, "error", err)
				conn.Close()
				return
			}

		case <-s.Done():
			for {
				select {
				case data := <-s.Outbound():
					if write(data) != nil {
						conn.Close()
						return
					}
				default:
					l.closeWith(conn, websocket.CloseNormalClosure, "session closed")
					return
				}
			}

		case <-ctx.Done():
			l.closeWith(conn, websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}

func (l *WebsocketListener) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(l.writeWait))
	conn.Close()
}
