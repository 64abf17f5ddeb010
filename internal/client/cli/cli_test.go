package cli

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drawboard/internal/models"
)

// TestResolveToken_FromEnvVar проверяет чтение токена из переменной окружения
func TestResolveToken_FromEnvVar(t *testing.T) {
	testToken := "env-token-123"
	t.Setenv("DRAWBOARD_TOKEN", testToken)

	token, err := resolveToken([]string{"arg-token"})

	require.NoError(t, err)
	// Переменная окружения важнее аргумента
	assert.Equal(t, testToken, token)
}

// TestResolveToken_FromArgs проверяет чтение токена из аргумента команды
func TestResolveToken_FromArgs(t *testing.T) {
	t.Setenv("DRAWBOARD_TOKEN", "")

	token, err := resolveToken([]string{"arg-token-456"})

	require.NoError(t, err)
	assert.Equal(t, "arg-token-456", token)
}

func TestParseRoomID(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    int64
		wantErr bool
	}{
		{name: "valid id", arg: "7", want: 7},
		{name: "zero", arg: "0", wantErr: true},
		{name: "negative", arg: "-3", wantErr: true},
		{name: "not a number", arg: "abc", wantErr: true},
		{name: "empty", arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRoomID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWsBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://localhost:8080", "ws://localhost:8080"},
		{"https://example.com", "wss://example.com"},
		{"ws://already-ws", "ws://already-ws"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, wsBaseURL(tt.input))
	}
}

func TestPeekClaims(t *testing.T) {
	t.Run("extracts user and expiry", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "user-42",
			"exp":     exp.Unix(),
		})
		signed, err := token.SignedString([]byte("any-secret"))
		require.NoError(t, err)

		userID, expiresAt, ok := peekClaims(signed)
		require.True(t, ok)
		assert.Equal(t, "user-42", userID)
		assert.Equal(t, exp.Unix(), expiresAt.Unix())
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, ok := peekClaims("not-a-jwt")
		assert.False(t, ok)
	})
}

func TestDescribeShape(t *testing.T) {
	tests := []struct {
		shape    models.Shape
		expected string
	}{
		{models.Rect{X: 10, Y: 20, Width: 80, Height: 40}, "rect (10,20) 80x40"},
		{models.Circle{CenterX: 5, CenterY: 5, Radius: 3}, "circle (5,5) r=3"},
		{models.Line{X1: 0, Y1: 0, X2: 10, Y2: 10}, "line (0,0)-(10,10)"},
		{models.Text{X: 1, Y: 2, Content: "hello"}, `text (1,2) "hello"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, describeShape(tt.shape))
	}
}
