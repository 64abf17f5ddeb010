package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/drawboard/internal/client/storage"
	"github.com/iudanet/drawboard/internal/client/storage/boltdb"
)

// RunLogout удаляет сохраненный токен
func RunLogout(ctx context.Context, boltStorage *boltdb.Storage) error {
	if err := boltStorage.DeleteAuth(ctx); err != nil {
		if err == storage.ErrAuthNotFound {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}
