package validation

import "fmt"

const (
	// MaxMessageLen максимальная длина сериализованной фигуры.
	// Защита от гигантских payload в журнале и в broadcast.
	MaxMessageLen = 64 * 1024
)

// ValidateRoomID проверяет, что id комнаты положительный.
// Id назначаются внешним сервисом комнат и всегда начинаются с 1.
func ValidateRoomID(roomID int64) error {
	if roomID <= 0 {
		return fmt.Errorf("room id must be positive, got %d", roomID)
	}
	return nil
}

// ValidateChatID проверяет, что id записи журнала положительный
func ValidateChatID(chatID int64) error {
	if chatID <= 0 {
		return fmt.Errorf("chat id must be positive, got %d", chatID)
	}
	return nil
}

// ValidateMessage проверяет границы сериализованного payload.
// Содержимое payload разбирает получатель; здесь только размер.
func ValidateMessage(message string) error {
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(message) > MaxMessageLen {
		return fmt.Errorf("message exceeds %d bytes", MaxMessageLen)
	}
	return nil
}
