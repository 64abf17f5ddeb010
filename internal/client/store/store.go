package store

import (
	"log/slog"

	"github.com/iudanet/drawboard/internal/geometry"
	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

// Placed представляет фигуру вместе с id её записи в журнале комнаты
type Placed struct {
	Shape models.Shape
	ID    int64
}

// Store хранит текущее состояние доски: фигуры в порядке отрисовки.
// Store не потокобезопасен: все вызовы должны приходить из одной
// горутины (цикл обработки событий сессии).
type Store struct {
	logger  *slog.Logger
	index   map[int64]int // id -> позиция в entries
	entries []Placed
}

// New creates an empty shape store
func New(logger *slog.Logger) *Store {
	return &Store{
		logger: logger,
		index:  make(map[int64]int),
	}
}

// Replay rebuilds the board state from a history page, oldest first.
// Malformed records are skipped: one bad row must not lose the board.
func (s *Store) Replay(events []models.ChatEvent) {
	for _, ev := range events {
		payload, err := models.ParsePayload(ev.Message)
		if err != nil {
			s.logger.Warn("Skipping malformed history record",
				"chat_id", ev.ID,
				"error", err)
			continue
		}

		switch payload.Kind {
		case models.PayloadCreate:
			s.create(ev.ID, payload.Shape)
		case models.PayloadUpdate:
			s.update(payload.TargetID, payload.Shape)
		case models.PayloadErase:
			s.erase(payload.TargetID)
		}
	}
}

// ApplyLive applies a single streamed server event. Same semantics as
// Replay, but the id comes from the event envelope instead of the row.
func (s *Store) ApplyLive(ev api.ServerEvent) {
	switch ev.Type {
	case api.MessageChat:
		shape, err := models.UnmarshalShape([]byte(ev.Message))
		if err != nil {
			s.logger.Warn("Skipping malformed live event",
				"chat_id", ev.ChatID,
				"error", err)
			return
		}
		s.create(ev.ChatID, shape)
	case api.MessageUpdate:
		shape, err := models.UnmarshalShape([]byte(ev.Message))
		if err != nil {
			s.logger.Warn("Skipping malformed live update",
				"chat_id", ev.ChatID,
				"error", err)
			return
		}
		s.update(ev.ChatID, shape)
	case api.MessageErase:
		s.erase(ev.ChatID)
	default:
		// join_room/leave_room не меняют состояние доски
	}
}

// Query returns the current shapes in paint order. The slice is a copy;
// the caller may hold it across further mutations.
func (s *Store) Query() []Placed {
	out := make([]Placed, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the shape stored under id, if any.
func (s *Store) Get(id int64) (models.Shape, bool) {
	pos, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[pos].Shape, true
}

// Len returns the number of shapes on the board.
func (s *Store) Len() int {
	return len(s.entries)
}

// FindAt returns the topmost shape containing the point, i.e. the last
// one in paint order, matching what the user sees on screen.
func (s *Store) FindAt(p geometry.Point, m geometry.TextMeasurer) (Placed, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if geometry.HitTest(p, s.entries[i].Shape, m) {
			return s.entries[i], true
		}
	}
	return Placed{}, false
}

// create добавляет фигуру в конец порядка отрисовки. Повторный create
// с тем же id заменяет фигуру на месте: журнал не выдает дубликаты,
// но поврежденная история не должна ронять клиент.
func (s *Store) create(id int64, shape models.Shape) {
	if pos, ok := s.index[id]; ok {
		s.logger.Warn("Duplicate create for existing id, replacing", "chat_id", id)
		s.entries[pos].Shape = shape
		return
	}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, Placed{ID: id, Shape: shape})
}

// update заменяет фигуру по id, сохраняя её позицию в порядке отрисовки
func (s *Store) update(id int64, shape models.Shape) {
	pos, ok := s.index[id]
	if !ok {
		s.logger.Warn("Update for unknown id, ignoring", "chat_id", id)
		return
	}
	s.entries[pos].Shape = shape
}

// erase удаляет фигуру по id; отсутствующий id — не ошибка,
// erase идемпотентен
func (s *Store) erase(id int64) {
	pos, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].ID] = i
	}
}
