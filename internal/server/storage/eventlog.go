package storage

import (
	"context"

	"github.com/iudanet/drawboard/internal/models"
)

//go:generate moq -out eventlog_mock.go . EventLog

// EventLog defines the interface for the persisted room event log. The
// log is the sole authority for id assignment: ids are unique within a
// room, monotonically increasing, and immutable once assigned.
type EventLog interface {
	// Append persists a new event and returns the assigned id
	Append(ctx context.Context, roomID int64, userID, message string) (int64, error)

	// History returns up to limit most recent events for a room,
	// newest-first (the natural page order of the underlying store)
	History(ctx context.Context, roomID int64, limit int) ([]models.ChatEvent, error)

	// UpdateByID replaces the message of an existing event in place.
	// Returns ErrEventNotFound if the id does not exist
	UpdateByID(ctx context.Context, id int64, message string) error

	// DeleteByID removes an event.
	// Returns ErrEventNotFound if the id does not exist
	DeleteByID(ctx context.Context, id int64) error
}
