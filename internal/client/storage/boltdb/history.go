package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/models"
)

// historyKey кодирует roomID в big-endian для упорядоченных ключей bucket
func historyKey(roomID int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(roomID))
	return key
}

// SaveHistory replaces the cached history page for the room
func (s *Storage) SaveHistory(ctx context.Context, roomID int64, events []models.ChatEvent) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}

		data, err := json.Marshal(events)
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}

		if err := bucket.Put(historyKey(roomID), data); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}

		return nil
	})
}

// GetHistory returns the cached history page for the room, oldest first
func (s *Storage) GetHistory(ctx context.Context, roomID int64) ([]models.ChatEvent, error) {
	var events []models.ChatEvent

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}

		data := bucket.Get(historyKey(roomID))
		if data == nil {
			return storage.ErrHistoryNotFound
		}

		if err := json.Unmarshal(data, &events); err != nil {
			return fmt.Errorf("failed to unmarshal history: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return events, nil
}
