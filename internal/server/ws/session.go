package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBufferSize is the per-session outbound queue. A session that falls
// this far behind is disconnected instead of stalling the fan-out.
const sendBufferSize = 256

// session is the ephemeral per-connection state: who connected, and which
// rooms the connection joined. Created only after the token verified,
// destroyed on disconnect, never persisted. The rooms set is guarded by
// the hub mutex together with the registry itself.
type session struct {
	conn      *websocket.Conn
	rooms     map[int64]struct{}
	send      chan []byte
	closeOnce *sync.Once
	id        string
	userID    string
}

func newSession(id, userID string, conn *websocket.Conn) *session {
	return &session{
		id:        id,
		userID:    userID,
		conn:      conn,
		rooms:     make(map[int64]struct{}),
		send:      make(chan []byte, sendBufferSize),
		closeOnce: &sync.Once{},
	}
}

// close shuts the outbound queue exactly once. The write pump drains the
// remaining frames and closes the underlying connection.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}

// writePump serializes all writes to the connection. gorilla/websocket
// allows at most one concurrent writer, so every outbound frame goes
// through the send channel.
func (s *session) writePump(logger *slog.Logger) {
	defer s.conn.Close()

	for msg := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debug("write failed, dropping connection",
				"session_id", s.id, "error", err)
			return
		}
	}
}
