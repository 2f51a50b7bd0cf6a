package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is one live connection bound to a character. Outbound frames are
// buffered; when the buffer is full new frames are dropped for this session
// only.
type Session struct {
	Id       string
	PlayerId string

	out   chan []byte
	done  chan struct{}
	once  sync.Once
	unsub func()

	lastActive atomic.Int64
}

func newSession(playerId string, buffer int, now time.Time) *Session {
	s := &Session{
		Id:       uuid.NewString(),
		PlayerId: playerId,
		out:      make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
	s.touch(now)
	return s
}

// Outbound yields encoded envelopes for the transport to write.
func (s *Session) Outbound() <-chan []byte {
	return s.out
}

// Done is closed when the session ends, by leaving, eviction, or idling out.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// deliver queues data without blocking. It reports false if data was dropped.
func (s *Session) deliver(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.out <- data:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		if s.unsub != nil {
			s.unsub()
		}
		close(s.done)
	})
}

func (s *Session) touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}
