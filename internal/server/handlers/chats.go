package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/internal/validation"
	"github.com/iudanet/drawboard/pkg/api"
)

// HistoryLimit ограничивает размер страницы истории комнаты
const HistoryLimit = 50

// HistoryReader определяет интерфейс чтения журнала событий
type HistoryReader interface {
	History(ctx context.Context, roomID int64, limit int) ([]models.ChatEvent, error)
}

// ChatsHandler serves the persisted history of a room: the most recent
// events, newest-first, capped at HistoryLimit. Clients reverse the page
// before replay.
type ChatsHandler struct {
	logger  *slog.Logger
	storage HistoryReader
}

// NewChatsHandler creates a new history handler
func NewChatsHandler(logger *slog.Logger, storage HistoryReader) *ChatsHandler {
	return &ChatsHandler{
		logger:  logger,
		storage: storage,
	}
}

// HandleChats обрабатывает GET /api/v1/chats/{roomID}
func (h *ChatsHandler) HandleChats(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(r.PathValue("roomID"), 10, 64)
	if err != nil {
		h.logger.Warn("invalid room id", "room_id", r.PathValue("roomID"), "error", err)
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	if err := validation.ValidateRoomID(roomID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.storage.History(r.Context(), roomID, HistoryLimit)
	if err != nil {
		h.logger.Error("failed to load history", "room_id", roomID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	resp := api.ChatsResponse{Messages: make([]api.ChatMessage, 0, len(events))}
	for _, ev := range events {
		resp.Messages = append(resp.Messages, api.ChatMessage{
			ID:      ev.ID,
			Message: ev.Message,
			UserID:  ev.UserID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode chats response", slog.Any("error", err))
	}
}

// writeError отправляет клиенту JSON с описанием ошибки
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: msg})
}
