package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drawboard/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_FetchHistory проверяет загрузку истории комнаты
func TestClient_FetchHistory(t *testing.T) {
	// Создаем mock сервер
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверяем метод и путь
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/chats/7", r.URL.Path)

		// Сервер отдает записи от новых к старым
		resp := api.ChatsResponse{
			Messages: []api.ChatMessage{
				{ID: 3, UserID: "bob", Message: `{"type":"circle","centerX":5,"centerY":5,"radius":2}`},
				{ID: 1, UserID: "alice", Message: `{"type":"rect","x":0,"y":0,"width":10,"height":10}`},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	events, err := client.FetchHistory(context.Background(), 7)
	require.NoError(t, err)

	// Порядок развернут: от старых к новым
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, "alice", events[0].UserID)
	assert.Equal(t, int64(7), events[0].RoomID)
	assert.Equal(t, int64(3), events[1].ID)
	assert.Equal(t, "bob", events[1].UserID)
}

// TestClient_FetchHistory_EmptyRoom проверяет пустую комнату
func TestClient_FetchHistory_EmptyRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ChatsResponse{Messages: []api.ChatMessage{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	events, err := client.FetchHistory(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, events)
}

// TestClient_FetchHistory_ServerError проверяет обработку ошибки сервера
func TestClient_FetchHistory_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "failed to load history"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.FetchHistory(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load history")
}

// TestClient_FetchHistory_BadJSON проверяет обработку битого ответа
func TestClient_FetchHistory_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.FetchHistory(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
