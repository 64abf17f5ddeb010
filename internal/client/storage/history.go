package storage

import (
	"context"

	"github.com/iudanet/drawboard/internal/models"
)

// HistoryCache defines interface for caching the last fetched history
// page per room. The cache lets the CLI render a board it has seen
// before while the server is unreachable; it is never authoritative.
type HistoryCache interface {
	// SaveHistory replaces the cached page for the room
	SaveHistory(ctx context.Context, roomID int64, events []models.ChatEvent) error

	// GetHistory returns the cached page for the room, oldest first
	// Returns ErrHistoryNotFound if the room has never been cached
	GetHistory(ctx context.Context, roomID int64) ([]models.ChatEvent, error)
}
