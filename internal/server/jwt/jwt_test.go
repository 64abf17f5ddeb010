package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	svc := NewService("test-secret-key", time.Hour)

	token, err := svc.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerify_Rejections(t *testing.T) {
	svc := NewService("test-secret-key", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Verify("")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService("another-secret", time.Hour)
		token, err := other.Generate("user-123")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewService("test-secret-key", -time.Minute)
		token, err := expired.Generate("user-123")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})
}
