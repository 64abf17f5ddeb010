package api

// MessageType определяет тип сообщения в WebSocket протоколе
type MessageType string

const (
	// MessageJoinRoom подписывает соединение на комнату
	MessageJoinRoom MessageType = "join_room"
	// MessageLeaveRoom отписывает соединение от комнаты
	MessageLeaveRoom MessageType = "leave_room"
	// MessageChat создает новую фигуру в комнате
	MessageChat MessageType = "chat"
	// MessageUpdate заменяет фигуру с существующим chatId
	MessageUpdate MessageType = "update"
	// MessageErase удаляет фигуру с существующим chatId
	MessageErase MessageType = "erase"
)

// ClientMessage представляет сообщение от клиента к серверу.
// Message содержит сериализованную фигуру для chat и update.
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message,omitempty"`
	RoomID  int64       `json:"roomId"`
	ChatID  int64       `json:"chatId,omitempty"`
}

// ServerEvent представляет событие от сервера к клиентам комнаты.
// ChatID назначается сервером: для chat это id новой записи,
// для update и erase — id целевой записи.
type ServerEvent struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message,omitempty"`
	UserID  string      `json:"userId"`
	RoomID  int64       `json:"roomId"`
	ChatID  int64       `json:"chatId,omitempty"`
}
