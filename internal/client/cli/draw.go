package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/drawboard/internal/client/session"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

const commandTimeout = 10 * time.Second

// RunDraw создает фигуру в комнате и ждет эхо сервера с назначенным id
func RunDraw(ctx context.Context, args []string, serverURL string, boltStorage *boltdb.Storage, logger *slog.Logger) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: drawboard draw <roomID> <shape-json>")
	}
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	shape, err := models.UnmarshalShape([]byte(args[1]))
	if err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}

	token, err := loadToken(ctx, boltStorage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	// Ждем эхо именно нашей правки: сервер шлет chat каждому участнику
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

	if err := s.SendCreate(shape); err != nil {
		return fmt.Errorf("failed to send shape: %w", err)
	}

	for {
		select {
		case ev := <-echo:
			if ev.Type == api.MessageChat {
				fmt.Printf("Drawn %s with id %d\n", shape.Kind(), ev.ChatID)
				return nil
			}
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for server confirmation")
		}
	}
}
