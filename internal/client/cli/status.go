package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
)

// RunStatus показывает состояние авторизации
func RunStatus(ctx context.Context, boltStorage *boltdb.Storage) error {
	auth, err := boltStorage.GetAuth(ctx)
	if err != nil {
		if err == storage.ErrAuthNotFound {
			fmt.Println("Status: not logged in")
			fmt.Println()
			fmt.Println("Use 'drawboard login' to store an access token.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	fmt.Println("Status: logged in")
	if auth.UserID != "" {
		fmt.Printf("User:    %s\n", auth.UserID)
	}
	fmt.Printf("Server:  %s\n", auth.ServerURL)
	fmt.Printf("Saved:   %s\n", auth.SavedAt.Format(time.RFC3339))

	if !auth.ExpiresAt.IsZero() {
		if time.Now().After(auth.ExpiresAt) {
			fmt.Printf("Expired: %s (login again)\n", auth.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Printf("Expires: %s\n", auth.ExpiresAt.Format(time.RFC3339))
		}
	}
	return nil
}
