package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/internal/server/storage"
)

// Append persists a new event and returns the id assigned by the log.
// AUTOINCREMENT гарантирует монотонно растущие id без переиспользования.
func (s *Storage) Append(ctx context.Context, roomID int64, userID, message string) (int64, error) {
	query := `
		INSERT INTO events (room_id, user_id, message, created_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query, roomID, userID, message, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to append event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get assigned event id: %w", err)
	}

	return id, nil
}

// History returns up to limit most recent events for a room, newest-first.
// Вызывающая сторона обязана развернуть порядок перед replay.
func (s *Storage) History(ctx context.Context, roomID int64, limit int) ([]models.ChatEvent, error) {
	query := `
		SELECT id, room_id, user_id, message
		FROM events
		WHERE room_id = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	events := make([]models.ChatEvent, 0)
	for rows.Next() {
		var ev models.ChatEvent
		if err := rows.Scan(&ev.ID, &ev.RoomID, &ev.UserID, &ev.Message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return events, nil
}

// UpdateByID replaces the message of an existing event in place.
// The id stays the same: updates reference a prior create, never
// themselves. Returns storage.ErrEventNotFound for an unknown id.
func (s *Storage) UpdateByID(ctx context.Context, id int64, message string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE events SET message = ? WHERE id = ?`, message, id)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

// DeleteByID removes an event from the log.
// Returns storage.ErrEventNotFound for an unknown id.
func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}
