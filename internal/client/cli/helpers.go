package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/drawboard/internal/client/session"
	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
	"github.com/iudanet/drawboard/internal/models"
)

// loadToken достает сохраненный токен или объясняет как залогиниться
func loadToken(ctx context.Context, boltStorage *boltdb.Storage) (string, error) {
	auth, err := boltStorage.GetAuth(ctx)
	if err != nil {
		if err == storage.ErrAuthNotFound {
			return "", fmt.Errorf("not authenticated. Please run 'drawboard login' first")
		}
		return "", fmt.Errorf("failed to get auth data: %w", err)
	}
	if !auth.ExpiresAt.IsZero() && time.Now().After(auth.ExpiresAt) {
		return "", fmt.Errorf("token expired. Please run 'drawboard login' again")
	}
	return auth.Token, nil
}

// wsBaseURL переводит HTTP адрес сервера в WebSocket схему
func wsBaseURL(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	default:
		return serverURL
	}
}

// waitOpen ждет пока сессия подключится и вступит в комнату
func waitOpen(ctx context.Context, s *session.Session, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		switch s.State() {
		case session.StateOpen:
			return nil
		case session.StateDisconnected:
			return fmt.Errorf("failed to connect to server")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	return fmt.Errorf("timed out connecting to server")
}

// describeShape дает однострочное описание фигуры для вывода
func describeShape(s models.Shape) string {
	switch v := s.(type) {
	case models.Rect:
		return fmt.Sprintf("rect (%.0f,%.0f) %gx%g", v.X, v.Y, v.Width, v.Height)
	case models.Circle:
		return fmt.Sprintf("circle (%.0f,%.0f) r=%g", v.CenterX, v.CenterY, v.Radius)
	case models.Ellipse:
		return fmt.Sprintf("ellipse (%.0f,%.0f) rx=%g ry=%g", v.CenterX, v.CenterY, v.RadiusX, v.RadiusY)
	case models.Line:
		return fmt.Sprintf("line (%.0f,%.0f)-(%.0f,%.0f)", v.X1, v.Y1, v.X2, v.Y2)
	case models.Arrow:
		return fmt.Sprintf("arrow (%.0f,%.0f)-(%.0f,%.0f)", v.X1, v.Y1, v.X2, v.Y2)
	case models.Triangle:
		return fmt.Sprintf("triangle (%.0f,%.0f) (%.0f,%.0f) (%.0f,%.0f)", v.X1, v.Y1, v.X2, v.Y2, v.X3, v.Y3)
	case models.Text:
		return fmt.Sprintf("text (%.0f,%.0f) %q", v.X, v.Y, firstLine(v.Content))
	default:
		return string(s.Kind())
	}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + "…"
	}
	return text
}
