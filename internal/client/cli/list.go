package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/iudanet/drawboard/internal/client/api"
	"github.com/iudanet/drawboard/internal/client/store"
	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
	"github.com/iudanet/drawboard/internal/models"
)

// RunList показывает фигуры комнаты: проигрывает последнюю страницу
// истории через хранилище фигур. Когда сервер недоступен, берет
// страницу из локального кэша.
func RunList(ctx context.Context, args []string, apiClient *api.Client, boltStorage *boltdb.Storage) error {
	if len(args) == 0 {
		return fmt.Errorf("missing room id. Usage: drawboard list <roomID>")
	}
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}

	events, fromCache, err := loadHistory(ctx, roomID, apiClient, boltStorage)
	if err != nil {
		return err
	}

	st := store.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st.Replay(events)

	fmt.Printf("=== Room %d ===\n", roomID)
	if fromCache {
		fmt.Println("(server unreachable, showing cached state)")
	}
	fmt.Println()

	shapes := st.Query()
	if len(shapes) == 0 {
		fmt.Println("The board is empty.")
		return nil
	}

	fmt.Printf("Found %d shape(s):\n", len(shapes))
	fmt.Println()
	printShapes(shapes, events)
	return nil
}

// loadHistory грузит историю с сервера, обновляя кэш; при недоступном
// сервере отдает кэшированную страницу
func loadHistory(ctx context.Context, roomID int64, apiClient *api.Client, boltStorage *boltdb.Storage) ([]models.ChatEvent, bool, error) {
	events, err := apiClient.FetchHistory(ctx, roomID)
	if err == nil {
		// Кэш — best effort: промах не должен ломать команду
		if cacheErr := boltStorage.SaveHistory(ctx, roomID, events); cacheErr != nil {
			fmt.Printf("Warning: failed to cache history: %v\n", cacheErr)
		}
		return events, false, nil
	}

	cached, cacheErr := boltStorage.GetHistory(ctx, roomID)
	if cacheErr != nil {
		if cacheErr == storage.ErrHistoryNotFound {
			return nil, false, fmt.Errorf("failed to fetch history: %w", err)
		}
		return nil, false, fmt.Errorf("failed to read cached history: %w", cacheErr)
	}
	return cached, true, nil
}

// printShapes выводит фигуры в порядке отрисовки с авторами записей
func printShapes(shapes []store.Placed, events []models.ChatEvent) {
	authors := make(map[int64]string, len(events))
	for _, ev := range events {
		authors[ev.ID] = ev.UserID
	}

	for i, placed := range shapes {
		line := fmt.Sprintf("%d. %s", i+1, describeShape(placed.Shape))
		fmt.Println(line)
		fmt.Printf("   ID: %d\n", placed.ID)
		if author := authors[placed.ID]; author != "" {
			fmt.Printf("   By: %s\n", author)
		}
	}
}
