package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

// Session errors
var (
	// ErrClosed возвращается после явного Close()
	ErrClosed = errors.New("session is closed")

	// ErrNotConnected возвращается при отправке вне состояния OPEN
	ErrNotConnected = errors.New("session is not connected")

	// ErrRetriesExhausted возвращается когда лимит переподключений исчерпан
	ErrRetriesExhausted = errors.New("reconnect attempts exhausted")
)

// State описывает фазу жизненного цикла сессии
type State string

const (
	StateDisconnected   State = "disconnected"
	StateConnecting     State = "connecting"
	StateOpen           State = "open"
	StateClosedNormal   State = "closed_normal"
	StateClosedAbnormal State = "closed_abnormal"
)

const (
	// defaultBaseDelay задает шаг паузы перед переподключением:
	// попытка N ждет N * baseDelay
	defaultBaseDelay = time.Second

	// defaultMaxAttempts ограничивает число переподключений подряд;
	// сбрасывается при каждом успешном подключении
	defaultMaxAttempts = 5
)

// Conn is the subset of a websocket connection the session needs.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer устанавливает WebSocket соединения. Подменяется в тестах.
type Dialer interface {
	Dial(ctx context.Context, rawURL string) (Conn, error)
}

// GorillaDialer является production реализацией Dialer
type GorillaDialer struct{}

func (GorillaDialer) Dial(ctx context.Context, rawURL string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// Config задает параметры сессии
type Config struct {
	// ServerURL — базовый адрес сервера, ws://host:port
	ServerURL string
	// Token — access token, передается в query при рукопожатии
	Token string
	// RoomID — комната, в которую сессия вступает после подключения
	RoomID int64
	// BaseDelay — шаг паузы переподключения (по умолчанию 1s)
	BaseDelay time.Duration
	// MaxAttempts — лимит переподключений подряд (по умолчанию 5)
	MaxAttempts int
}

// EventHandler вызывается для каждого события сервера в порядке получения,
// всегда из одной горутины (цикла Run)
type EventHandler func(ev api.ServerEvent)

// Session поддерживает живое соединение с комнатой: подключается,
// вступает в комнату, читает события и переподключается с растущей
// паузой после аварийного разрыва. Локальные правки уходят сразу,
// но состояние доски меняет только эхо сервера.
type Session struct {
	dialer  Dialer
	logger  *slog.Logger
	onEvent EventHandler
	sleep   func(ctx context.Context, d time.Duration) error
	done    chan struct{}
	conn    Conn
	cfg     Config
	mu      sync.Mutex
	state   State
	closed  bool
}

// New создает сессию. Run нужно запустить отдельно.
func New(cfg Config, dialer Dialer, onEvent EventHandler, logger *slog.Logger) *Session {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Session{
		cfg:     cfg,
		dialer:  dialer,
		logger:  logger,
		onEvent: onEvent,
		state:   StateDisconnected,
		done:    make(chan struct{}),
		sleep:   sleepWithContext,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run владеет соединением: подключение, join_room, чтение событий,
// переподключение. Блокируется до Close, отмены контекста или
// исчерпания попыток. Запускается ровно один раз.
func (s *Session) Run(ctx context.Context) error {
	attempt := 0

	for {
		if s.isClosed() {
			s.setState(StateClosedNormal)
			return nil
		}
		if err := ctx.Err(); err != nil {
			s.setState(StateDisconnected)
			return err
		}

		s.setState(StateConnecting)
		conn, err := s.dialer.Dial(ctx, s.wsURL())
		if err != nil {
			s.logger.Warn("Connection failed", "error", err)
			attempt++
			if stop, berr := s.backoff(ctx, attempt); stop {
				return berr
			}
			continue
		}

		if err := s.attach(conn); err != nil {
			// Close подоспел пока шло рукопожатие
			_ = conn.Close()
			s.setState(StateClosedNormal)
			return nil
		}

		if err := s.joinRoom(); err != nil {
			s.logger.Warn("Failed to join room", "room_id", s.cfg.RoomID, "error", err)
			s.detach()
			attempt++
			if stop, berr := s.backoff(ctx, attempt); stop {
				return berr
			}
			continue
		}

		s.setState(StateOpen)
		// Успешное подключение сбрасывает счетчик попыток
		attempt = 0
		s.logger.Info("Session open", "room_id", s.cfg.RoomID)

		normal := s.readLoop(conn)
		s.detach()

		if normal || s.isClosed() {
			s.setState(StateClosedNormal)
			s.logger.Info("Session closed")
			return nil
		}

		s.setState(StateClosedAbnormal)
		attempt++
		if stop, berr := s.backoff(ctx, attempt); stop {
			return berr
		}
	}
}

// backoff ждет baseDelay * attempt перед следующей попыткой.
// Возвращает stop=true когда попытки исчерпаны или сессию остановили.
// Попытка MaxAttempts еще выполняется (с паузой baseDelay * MaxAttempts),
// сдаемся только после ее провала.
func (s *Session) backoff(ctx context.Context, attempt int) (bool, error) {
	if attempt > s.cfg.MaxAttempts {
		s.setState(StateDisconnected)
		s.logger.Warn("Giving up after max reconnect attempts", "attempts", s.cfg.MaxAttempts)
		return true, ErrRetriesExhausted
	}

	delay := s.cfg.BaseDelay * time.Duration(attempt)
	s.logger.Info("Reconnecting", "attempt", attempt, "delay", delay)

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-waitCtx.Done():
		}
	}()

	if err := s.sleep(waitCtx, delay); err != nil {
		if s.isClosed() {
			s.setState(StateClosedNormal)
			return true, nil
		}
		s.setState(StateDisconnected)
		return true, err
	}
	return false, nil
}

// readLoop читает события до разрыва соединения.
// Возвращает true при нормальном закрытии (код 1000).
func (s *Session) readLoop(conn Conn) bool {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return true
			}
			s.logger.Debug("Read loop ended", "error", err)
			return false
		}

		var ev api.ServerEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn("Skipping malformed server event", "error", err)
			continue
		}

		if s.onEvent != nil {
			s.onEvent(ev)
		}
	}
}

// SendCreate отправляет новую фигуру в комнату
func (s *Session) SendCreate(shape models.Shape) error {
	data, err := models.MarshalShape(shape)
	if err != nil {
		return fmt.Errorf("failed to marshal shape: %w", err)
	}
	return s.send(api.ClientMessage{
		Type:    api.MessageChat,
		RoomID:  s.cfg.RoomID,
		Message: string(data),
	})
}

// SendUpdate отправляет замену фигуры с данным id
func (s *Session) SendUpdate(id int64, shape models.Shape) error {
	data, err := models.MarshalShape(shape)
	if err != nil {
		return fmt.Errorf("failed to marshal shape: %w", err)
	}
	return s.send(api.ClientMessage{
		Type:    api.MessageUpdate,
		RoomID:  s.cfg.RoomID,
		ChatID:  id,
		Message: string(data),
	})
}

// SendErase отправляет удаление фигуры с данным id
func (s *Session) SendErase(id int64) error {
	return s.send(api.ClientMessage{
		Type:   api.MessageErase,
		RoomID: s.cfg.RoomID,
		ChatID: id,
	})
}

// Close завершает сессию штатно: close frame, без переподключения.
// Повторные вызовы безопасны.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	conn := s.conn
	if conn != nil {
		// Пишем close frame под mu: конкурентных send уже не будет
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	}
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (s *Session) send(msg api.ClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.state != StateOpen || s.conn == nil {
		return ErrNotConnected
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// joinRoom подписывает соединение на комнату из конфигурации
func (s *Session) joinRoom() error {
	msg := api.ClientMessage{Type: api.MessageJoinRoom, RoomID: s.cfg.RoomID}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal join message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) attach(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.conn = conn
	return nil
}

func (s *Session) detach() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// wsURL собирает адрес рукопожатия с токеном в query
func (s *Session) wsURL() string {
	q := url.Values{}
	q.Set("token", s.cfg.Token)
	return s.cfg.ServerURL + "/ws?" + q.Encode()
}
