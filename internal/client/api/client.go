package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// FetchHistory загружает последнюю страницу истории комнаты.
// Сервер отдает записи от новых к старым; здесь порядок разворачивается,
// чтобы вызывающий мог проигрывать события от старых к новым.
func (c *Client) FetchHistory(ctx context.Context, roomID int64) ([]models.ChatEvent, error) {
	var resp api.ChatsResponse
	url := fmt.Sprintf("/api/v1/chats/%d", roomID)
	if err := c.doRequest(ctx, http.MethodGet, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch history request failed: %w", err)
	}

	events := make([]models.ChatEvent, 0, len(resp.Messages))
	for i := len(resp.Messages) - 1; i >= 0; i-- {
		msg := resp.Messages[i]
		events = append(events, models.ChatEvent{
			ID:      msg.ID,
			RoomID:  roomID,
			UserID:  msg.UserID,
			Message: msg.Message,
		})
	}
	return events, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, result interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
