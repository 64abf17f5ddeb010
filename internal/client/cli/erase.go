package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/iudanet/drawboard/internal/client/session"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
	"github.com/iudanet/drawboard/pkg/api"
)

// RunErase удаляет фигуру из комнаты по id записи.
// Отсутствующий id сервер молча игнорирует, поэтому эхо приходит
// только когда фигура действительно была.
func RunErase(ctx context.Context, args []string, serverURL string, boltStorage *boltdb.Storage, logger *slog.Logger) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: drawboard erase <roomID> <shapeID>")
	}
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	shapeID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || shapeID <= 0 {
		return fmt.Errorf("invalid shape id %q: expected a positive number", args[1])
	}

	token, err := loadToken(ctx, boltStorage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	echo := make(chan api.ServerEvent, 16)
	s := session.New(session.Config{
		ServerURL: wsBaseURL(serverURL),
		Token:     token,
		RoomID:    roomID,
	}, session.GorillaDialer{}, func(ev api.ServerEvent) {
		select {
		case echo <- ev:
		default:
		}
	}, logger)

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()
	defer func() { _ = s.Close() }()

	if err := waitOpen(ctx, s, commandTimeout); err != nil {
		return err
	}

	if err := s.SendErase(shapeID); err != nil {
		return fmt.Errorf("failed to send erase: %w", err)
	}

	// Даем серверу время на эхо; тишина значит что такой фигуры не было
	confirm := time.After(2 * time.Second)
	for {
		select {
		case ev := <-echo:
			if ev.Type == api.MessageErase && ev.ChatID == shapeID {
				fmt.Printf("Erased shape %d\n", shapeID)
				return nil
			}
		case <-confirm:
			fmt.Printf("No shape with id %d (nothing to erase)\n", shapeID)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
