package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the access token on client.
// Tokens are issued outside the sync engine; the client only keeps the
// last one it was given so the CLI does not ask for it on every run.
type AuthStorage interface {
	// SaveAuth stores authentication data, replacing any previous token
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a non-expired token exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents authentication information in storage
type AuthData struct {
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"` // нулевое значение = без срока
	ServerURL string    `json:"server_url"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
}
