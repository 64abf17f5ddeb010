package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

//go:generate moq -out verifier_mock.go . TokenVerifier

// TokenVerifier is the external auth capability: it validates the
// handshake token and returns the user it belongs to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler upgrades HTTP connections to WebSocket sessions. The token is
// carried as a query parameter and verified exactly once, before the
// session enters the registry; a rejected connection never sees a single
// room message.
type Handler struct {
	hub      *Hub
	verifier TokenVerifier
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the WebSocket endpoint handler.
func NewHandler(logger *slog.Logger, hub *Hub, verifier TokenVerifier) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Браузерные клиенты приходят с другого origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws?token=...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Warn("connection rejected", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	s := newSession(uuid.NewString(), userID, conn)
	h.hub.register(s)

	go s.writePump(h.logger)
	h.readPump(r, s)
}

// readPump drains inbound frames into the hub until the connection
// drops, then removes the session from the registry. Runs on the HTTP
// handler goroutine, so r.Context() stays alive for persistence calls.
func (h *Handler) readPump(r *http.Request, s *session) {
	defer h.hub.unregister(s)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("connection closed abnormally",
					"session_id", s.id, "error", err)
			}
			return
		}
		h.hub.handleMessage(r.Context(), s, raw)
	}
}
