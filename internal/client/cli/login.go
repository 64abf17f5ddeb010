package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
)

// RunLogin сохраняет access token для последующих команд.
// Токен выдается вне движка синхронизации; клиент его только хранит.
func RunLogin(ctx context.Context, serverURL string, args []string, boltStorage *boltdb.Storage) error {
	token, err := resolveToken(args)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	auth := &storage.AuthData{
		ServerURL: serverURL,
		Token:     token,
		SavedAt:   time.Now().UTC(),
	}

	// Срок и user_id берем из claims без проверки подписи:
	// проверять токен — дело сервера
	if userID, expiresAt, ok := peekClaims(token); ok {
		auth.UserID = userID
		auth.ExpiresAt = expiresAt
	}

	if err := boltStorage.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("Token saved.")
	if auth.UserID != "" {
		fmt.Printf("User: %s\n", auth.UserID)
	}
	if !auth.ExpiresAt.IsZero() {
		fmt.Printf("Expires: %s\n", auth.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// resolveToken получает токен по приоритету: env, аргумент, скрытый ввод
func resolveToken(args []string) (string, error) {
	if envToken := os.Getenv("DRAWBOARD_TOKEN"); envToken != "" {
		return envToken, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	token, err := readSecret("Access token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// peekClaims достает user_id и срок действия из JWT без валидации
func peekClaims(token string) (userID string, expiresAt time.Time, ok bool) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", time.Time{}, false
	}

	if sub, found := claims["user_id"].(string); found {
		userID = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return userID, expiresAt, true
}
