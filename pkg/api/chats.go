package api

// ChatMessage представляет одну запись истории комнаты
type ChatMessage struct {
	Message string `json:"message"` // сериализованная фигура
	UserID  string `json:"userId"`  // автор записи
	ID      int64  `json:"id"`      // id, назначенный журналом
}

// ChatsResponse представляет ответ GET /api/v1/chats/{roomID}.
// Записи отсортированы от новых к старым, не больше 50 штук.
type ChatsResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
