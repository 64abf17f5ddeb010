package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/drawboard/internal/client/api"
	clientsession "github.com/iudanet/drawboard/internal/client/session"
	"github.com/iudanet/drawboard/internal/client/store"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/drawboard/pkg/api"
)

// RunWatch следит за комнатой: проигрывает историю и печатает живые
// события до прерывания (Ctrl+C)
func RunWatch(ctx context.Context, args []string, serverURL string, apiClient *api.Client, boltStorage *boltdb.Storage, logger *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("missing room id. Usage: drawboard watch <roomID>")
	}
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}

	token, err := loadToken(ctx, boltStorage)
	if err != nil {
		return err
	}

	// Сначала история: доска восстанавливается до живого потока
	events, fromCache, err := loadHistory(ctx, roomID, apiClient, boltStorage)
	if err != nil {
		return err
	}

	st := store.New(logger)
	st.Replay(events)

	fmt.Printf("=== Watching room %d ===\n", roomID)
	if fromCache {
		fmt.Println("(history from cache)")
	}
	fmt.Printf("%d shape(s) on the board. Press Ctrl+C to stop.\n", st.Len())
	fmt.Println()

	// События применяются к доске и печатаются из одной горутины Run
	s := clientsession.New(clientsession.Config{
		ServerURL: wsBaseURL(serverURL),
		Token:     token,
		RoomID:    roomID,
	}, clientsession.GorillaDialer{}, func(ev pkgapi.ServerEvent) {
		st.ApplyLive(ev)
		printEvent(st, ev)
	}, logger)

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	select {
	case <-ctx.Done():
		_ = s.Close()
		<-runErr
		fmt.Println()
		fmt.Println("Stopped.")
		return nil
	case err := <-runErr:
		return err
	}
}

// printEvent печатает одно живое событие комнаты
func printEvent(st *store.Store, ev pkgapi.ServerEvent) {
	switch ev.Type {
	case pkgapi.MessageChat, pkgapi.MessageUpdate:
		verb := "drew"
		if ev.Type == pkgapi.MessageUpdate {
			verb = "moved"
		}
		if shape, ok := st.Get(ev.ChatID); ok {
			fmt.Printf("[%s] %s %s (id %d)\n", ev.UserID, verb, describeShape(shape), ev.ChatID)
		}
	case pkgapi.MessageErase:
		fmt.Printf("[%s] erased shape %d\n", ev.UserID, ev.ChatID)
	case pkgapi.MessageJoinRoom:
		fmt.Printf("[%s] joined\n", ev.UserID)
	case pkgapi.MessageLeaveRoom:
		fmt.Printf("[%s] left\n", ev.UserID)
	}
}
