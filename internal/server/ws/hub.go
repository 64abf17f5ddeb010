package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/iudanet/drawboard/internal/server/storage"
	"github.com/iudanet/drawboard/internal/validation"
	"github.com/iudanet/drawboard/pkg/api"
)

// Hub is the room registry and broadcast server: it tracks connected
// sessions and their room memberships, persists every event through the
// event log, and fans validated events out to same-room sessions.
//
// The registry maps are guarded by a single RWMutex. Persistence calls
// never run under that mutex; ordering within a room is kept by a
// per-room lock held across append+fan-out, so one room's slow
// persistence cannot stall broadcasts to unrelated rooms.
type Hub struct {
	logger   *slog.Logger
	eventLog storage.EventLog
	sessions map[string]*session
	roomLock map[int64]*sync.Mutex
	mu       sync.RWMutex
	roomMu   sync.Mutex
}

// NewHub creates a hub backed by the given event log.
func NewHub(logger *slog.Logger, eventLog storage.EventLog) *Hub {
	return &Hub{
		logger:   logger,
		eventLog: eventLog,
		sessions: make(map[string]*session),
		roomLock: make(map[int64]*sync.Mutex),
	}
}

// register adds an authenticated session to the registry.
func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.id] = s

	h.logger.Info("session registered", "session_id", s.id, "user_id", s.userID)
}

// unregister removes the session and all of its room memberships in one
// critical section: a concurrent broadcast sees the session either in
// every room it joined or in none.
func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()

	s.close()
	h.logger.Info("session unregistered", "session_id", s.id)
}

// SessionCount returns the number of registered sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// InRoom reports whether any registered session of the given user has the
// room joined. Used in tests and diagnostics.
func (h *Hub) InRoom(roomID int64, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		if s.userID != userID {
			continue
		}
		if _, ok := s.rooms[roomID]; ok {
			return true
		}
	}
	return false
}

// handleMessage dispatches one inbound frame. Every message is validated
// independently; malformed or unknown messages are logged and ignored,
// they never terminate the connection.
func (h *Hub) handleMessage(ctx context.Context, s *session, raw []byte) {
	var msg api.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("malformed message ignored", "session_id", s.id, "error", err)
		return
	}

	if err := validation.ValidateRoomID(msg.RoomID); err != nil {
		h.logger.Warn("message with bad room id ignored",
			"session_id", s.id, "type", msg.Type, "error", err)
		return
	}

	switch msg.Type {
	case api.MessageJoinRoom:
		h.joinRoom(s, msg.RoomID)
	case api.MessageLeaveRoom:
		h.leaveRoom(s, msg.RoomID)
	case api.MessageChat:
		h.handleChat(ctx, s, msg)
	case api.MessageUpdate:
		h.handleUpdate(ctx, s, msg)
	case api.MessageErase:
		h.handleErase(ctx, s, msg)
	default:
		h.logger.Warn("unknown message type ignored",
			"session_id", s.id, "type", msg.Type)
	}
}

// joinRoom adds the room to the session's set. Idempotent.
func (h *Hub) joinRoom(s *session, roomID int64) {
	h.mu.Lock()
	s.rooms[roomID] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("joined room", "session_id", s.id, "room_id", roomID)
}

// leaveRoom removes the room from the session's set. Idempotent.
func (h *Hub) leaveRoom(s *session, roomID int64) {
	h.mu.Lock()
	delete(s.rooms, roomID)
	h.mu.Unlock()

	h.logger.Info("left room", "session_id", s.id, "room_id", roomID)
}

// memberOf reports whether the session has the room joined.
func (h *Hub) memberOf(s *session, roomID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// handleChat persists a create and fans it out. Persistence
// happens-before broadcast: an event whose append failed is dropped so a
// client never observes a delta it could not reconstruct from history.
func (h *Hub) handleChat(ctx context.Context, s *session, msg api.ClientMessage) {
	if !h.memberOf(s, msg.RoomID) {
		h.logger.Warn("chat for a room not joined ignored",
			"session_id", s.id, "room_id", msg.RoomID)
		return
	}
	if err := validation.ValidateMessage(msg.Message); err != nil {
		h.logger.Warn("chat payload rejected", "session_id", s.id, "error", err)
		return
	}

	lock := h.lockRoom(msg.RoomID)
	defer lock.Unlock()

	id, err := h.eventLog.Append(ctx, msg.RoomID, s.userID, msg.Message)
	if err != nil {
		h.logger.Error("append failed, event dropped",
			"session_id", s.id, "room_id", msg.RoomID, "error", err)
		return
	}

	h.broadcast(msg.RoomID, api.ServerEvent{
		Type:    api.MessageChat,
		RoomID:  msg.RoomID,
		ChatID:  id,
		Message: msg.Message,
		UserID:  s.userID,
	})
}

// handleUpdate replaces a shape by id. An unknown id means the target was
// already erased concurrently: the update is dropped silently.
func (h *Hub) handleUpdate(ctx context.Context, s *session, msg api.ClientMessage) {
	if !h.memberOf(s, msg.RoomID) {
		h.logger.Warn("update for a room not joined ignored",
			"session_id", s.id, "room_id", msg.RoomID)
		return
	}
	if err := validation.ValidateChatID(msg.ChatID); err != nil {
		h.logger.Warn("update rejected", "session_id", s.id, "error", err)
		return
	}
	if err := validation.ValidateMessage(msg.Message); err != nil {
		h.logger.Warn("update payload rejected", "session_id", s.id, "error", err)
		return
	}

	lock := h.lockRoom(msg.RoomID)
	defer lock.Unlock()

	if err := h.eventLog.UpdateByID(ctx, msg.ChatID, msg.Message); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.logger.Debug("update target gone, dropped",
				"session_id", s.id, "chat_id", msg.ChatID)
		} else {
			h.logger.Error("update failed, event dropped",
				"session_id", s.id, "chat_id", msg.ChatID, "error", err)
		}
		return
	}

	h.broadcast(msg.RoomID, api.ServerEvent{
		Type:    api.MessageUpdate,
		RoomID:  msg.RoomID,
		ChatID:  msg.ChatID,
		Message: msg.Message,
		UserID:  s.userID,
	})
}

// handleErase deletes a shape by id. Double-erase is an expected race and
// is silently idempotent.
func (h *Hub) handleErase(ctx context.Context, s *session, msg api.ClientMessage) {
	if !h.memberOf(s, msg.RoomID) {
		h.logger.Warn("erase for a room not joined ignored",
			"session_id", s.id, "room_id", msg.RoomID)
		return
	}
	if err := validation.ValidateChatID(msg.ChatID); err != nil {
		h.logger.Warn("erase rejected", "session_id", s.id, "error", err)
		return
	}

	lock := h.lockRoom(msg.RoomID)
	defer lock.Unlock()

	if err := h.eventLog.DeleteByID(ctx, msg.ChatID); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.logger.Debug("erase target already gone",
				"session_id", s.id, "chat_id", msg.ChatID)
		} else {
			h.logger.Error("delete failed, event dropped",
				"session_id", s.id, "chat_id", msg.ChatID, "error", err)
		}
		return
	}

	h.broadcast(msg.RoomID, api.ServerEvent{
		Type:   api.MessageErase,
		RoomID: msg.RoomID,
		ChatID: msg.ChatID,
		UserID: s.userID,
	})
}

// lockRoom returns the per-room ordering lock, locked. The caller holds
// it across persist+broadcast so every member observes the same relative
// event order within the room.
func (h *Hub) lockRoom(roomID int64) *sync.Mutex {
	h.roomMu.Lock()
	lock, ok := h.roomLock[roomID]
	if !ok {
		lock = &sync.Mutex{}
		h.roomLock[roomID] = lock
	}
	h.roomMu.Unlock()

	lock.Lock()
	return lock
}

// broadcast delivers the event to every session joined to the room,
// sender included. Targets are collected under the read lock; the actual
// writes go through buffered per-session channels so one slow peer never
// blocks the registry. A peer whose buffer is full is disconnected rather
// than silently skipped.
func (h *Hub) broadcast(roomID int64, event api.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal server event", "error", err)
		return
	}

	var stalled []*session

	h.mu.RLock()
	for _, s := range h.sessions {
		if _, ok := s.rooms[roomID]; !ok {
			continue
		}
		select {
		case s.send <- payload:
		default:
			stalled = append(stalled, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range stalled {
		h.logger.Warn("send buffer full, dropping session",
			"session_id", s.id, "room_id", roomID)
		h.unregister(s)
	}
}
