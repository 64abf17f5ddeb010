package models

import (
	"encoding/json"
	"fmt"
)

// ChatEvent is one persisted record of a room's event log. The ID is
// assigned by the log on append, is unique within a room and grows
// monotonically; it never changes afterwards.
type ChatEvent struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
	RoomID  int64  `json:"roomId"`
}

// PayloadKind classifies what an event's message encodes.
type PayloadKind string

const (
	PayloadCreate PayloadKind = "create"
	PayloadUpdate PayloadKind = "update"
	PayloadErase  PayloadKind = "erase"
)

// Payload is the parsed form of a ChatEvent message: either a new shape,
// a replacement for a previously created id, or an erase marker.
// Update and erase always reference a prior create's id, never their own.
type Payload struct {
	Shape    Shape
	Kind     PayloadKind
	TargetID int64
}

// ParsePayload decodes an event message. Messages are normally serialized
// shapes (creates); update and erase markers can additionally appear in a
// live stream or, under log corruption, in persisted history. A parse
// error here means the record is malformed and should be skipped, never
// that a larger operation should abort.
func ParsePayload(message string) (Payload, error) {
	var envelope struct {
		Type   string          `json:"type"`
		ChatID int64           `json:"chatId"`
		Shape  json.RawMessage `json:"shape"`
	}
	if err := json.Unmarshal([]byte(message), &envelope); err != nil {
		return Payload{}, fmt.Errorf("failed to parse event payload: %w", err)
	}

	switch envelope.Type {
	case string(PayloadErase):
		return Payload{Kind: PayloadErase, TargetID: envelope.ChatID}, nil
	case string(PayloadUpdate):
		shape, err := UnmarshalShape(envelope.Shape)
		if err != nil {
			return Payload{}, fmt.Errorf("update marker for id %d: %w", envelope.ChatID, err)
		}
		return Payload{Kind: PayloadUpdate, TargetID: envelope.ChatID, Shape: shape}, nil
	default:
		shape, err := UnmarshalShape([]byte(message))
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: PayloadCreate, Shape: shape}, nil
	}
}
