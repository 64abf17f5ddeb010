package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeConn имитирует WebSocket соединение: входящие кадры подаются
// через inbound, исходящие копятся в written
type fakeConn struct {
	readErr   error
	inbound   chan []byte
	closed    chan struct{}
	written   [][]byte
	closeOnce sync.Once
	mu        sync.Mutex
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
		readErr: &websocket.CloseError{Code: websocket.CloseAbnormalClosure},
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.inbound:
		return websocket.TextMessage, data, nil
	case <-c.closed:
		c.mu.Lock()
		defer c.mu.Unlock()
		return 0, nil, c.readErr
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageType == websocket.CloseMessage {
		// Штатное закрытие: читатель получит код 1000
		c.readErr = &websocket.CloseError{Code: websocket.CloseNormalClosure}
		return nil
	}
	c.written = append(c.written, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// failAbnormal обрывает соединение как при сетевой ошибке
func (c *fakeConn) failAbnormal() {
	c.closeOnce.Do(func() { close(c.closed) })
}

func (c *fakeConn) writtenMessages(t *testing.T) []api.ClientMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]api.ClientMessage, 0, len(c.written))
	for _, data := range c.written {
		var msg api.ClientMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		out = append(out, msg)
	}
	return out
}

func (c *fakeConn) push(t *testing.T, ev api.ServerEvent) {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	c.inbound <- data
}

// fakeDialer выдает заранее заданную последовательность результатов
type fakeDialer struct {
	mu      sync.Mutex
	urls    []string
	results []dialResult
}

type dialResult struct {
	conn *fakeConn
	err  error
}

func (d *fakeDialer) Dial(ctx context.Context, rawURL string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.urls = append(d.urls, rawURL)
	if len(d.results) == 0 {
		return nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
	}
	next := d.results[0]
	d.results = d.results[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

// eventRecorder копит события для проверок из тестовой горутины
type eventRecorder struct {
	mu     sync.Mutex
	events []api.ServerEvent
}

func (r *eventRecorder) record(ev api.ServerEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) snapshot() []api.ServerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.ServerEvent, len(r.events))
	copy(out, r.events)
	return out
}

// recordSleeps подменяет таймер переподключения мгновенным,
// записывая запрошенные паузы
func recordSleeps(s *Session) *[]time.Duration {
	var mu sync.Mutex
	delays := &[]time.Duration{}
	s.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		*delays = append(*delays, d)
		mu.Unlock()
		return ctx.Err()
	}
	return delays
}

func startSession(t *testing.T, s *Session) chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()
	return errCh
}

func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return s.State() == want },
		time.Second, 5*time.Millisecond)
}

func TestSession_OpenSendsJoinRoom(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: conn}}}

	s := New(Config{ServerURL: "ws://srv", Token: "tok-1", RoomID: 7}, dialer, nil, testLogger())
	errCh := startSession(t, s)

	waitState(t, s, StateOpen)

	msgs := conn.writtenMessages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.MessageJoinRoom, msgs[0].Type)
	assert.Equal(t, int64(7), msgs[0].RoomID)

	// Токен уходит в query параметре рукопожатия
	require.Len(t, dialer.urls, 1)
	assert.Equal(t, "ws://srv/ws?token=tok-1", dialer.urls[0])

	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)
	assert.Equal(t, StateClosedNormal, s.State())
}

func TestSession_DispatchesEventsInOrder(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: conn}}}
	rec := &eventRecorder{}

	s := New(Config{ServerURL: "ws://srv", RoomID: 1}, dialer, rec.record, testLogger())
	errCh := startSession(t, s)
	waitState(t, s, StateOpen)

	conn.push(t, api.ServerEvent{Type: api.MessageChat, ChatID: 1, Message: `{"type":"rect","x":0,"y":0,"width":1,"height":1}`})
	conn.push(t, api.ServerEvent{Type: api.MessageErase, ChatID: 1})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 },
		time.Second, 5*time.Millisecond)

	events := rec.snapshot()
	assert.Equal(t, api.MessageChat, events[0].Type)
	assert.Equal(t, api.MessageErase, events[1].Type)

	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)
}

func TestSession_SendBeforeConnect(t *testing.T) {
	s := New(Config{ServerURL: "ws://srv", RoomID: 1}, &fakeDialer{}, nil, testLogger())

	err := s.SendErase(5)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSession_SendCreateUpdateErase(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: conn}}}

	s := New(Config{ServerURL: "ws://srv", RoomID: 3}, dialer, nil, testLogger())
	errCh := startSession(t, s)
	waitState(t, s, StateOpen)

	rect := models.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	require.NoError(t, s.SendCreate(rect))
	require.NoError(t, s.SendUpdate(9, models.Circle{CenterX: 1, CenterY: 1, Radius: 1}))
	require.NoError(t, s.SendErase(9))

	msgs := conn.writtenMessages(t)
	require.Len(t, msgs, 4) // join_room + три правки

	create := msgs[1]
	assert.Equal(t, api.MessageChat, create.Type)
	assert.Equal(t, int64(3), create.RoomID)
	shape, err := models.UnmarshalShape([]byte(create.Message))
	require.NoError(t, err)
	assert.Equal(t, rect, shape)

	update := msgs[2]
	assert.Equal(t, api.MessageUpdate, update.Type)
	assert.Equal(t, int64(9), update.ChatID)
	assert.NotEmpty(t, update.Message)

	erase := msgs[3]
	assert.Equal(t, api.MessageErase, erase.Type)
	assert.Equal(t, int64(9), erase.ChatID)
	assert.Empty(t, erase.Message)

	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)
}

func TestSession_ReconnectsWithGrowingDelay(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{
		{err: assert.AnError},
		{err: assert.AnError},
		{conn: conn},
	}}

	s := New(Config{ServerURL: "ws://srv", RoomID: 1, BaseDelay: time.Second}, dialer, nil, testLogger())
	delays := recordSleeps(s)
	errCh := startSession(t, s)

	waitState(t, s, StateOpen)

	assert.Equal(t, 3, dialer.dialCount())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)

	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)
}

func TestSession_AbnormalCloseTriggersReconnect(t *testing.T) {
	first := newFakeConn()
	second := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: first}, {conn: second}}}

	s := New(Config{ServerURL: "ws://srv", RoomID: 1}, dialer, nil, testLogger())
	delays := recordSleeps(s)
	errCh := startSession(t, s)
	waitState(t, s, StateOpen)

	// Сетевой обрыв: сессия должна переподключиться и снова вступить в комнату
	first.failAbnormal()
	require.Eventually(t, func() bool { return dialer.dialCount() == 2 },
		time.Second, 5*time.Millisecond)
	waitState(t, s, StateOpen)

	msgs := second.writtenMessages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.MessageJoinRoom, msgs[0].Type)
	assert.Equal(t, []time.Duration{1 * time.Second}, *delays)

	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)
}

func TestSession_GivesUpAfterMaxAttempts(t *testing.T) {
	dialer := &fakeDialer{} // все попытки проваливаются

	s := New(Config{ServerURL: "ws://srv", RoomID: 1, MaxAttempts: 3}, dialer, nil, testLogger())
	delays := recordSleeps(s)
	errCh := startSession(t, s)

	err := <-errCh
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, StateDisconnected, s.State())
	// Первый dial + три переподключения; сдаемся только после провала третьего
	assert.Equal(t, 4, dialer.dialCount())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, *delays)
}

func TestSession_SchedulesAllAttemptsAfterAbnormalClose(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: conn}}} // дальше все dial падают

	s := New(Config{ServerURL: "ws://srv", RoomID: 1, MaxAttempts: 5}, dialer, nil, testLogger())
	delays := recordSleeps(s)
	errCh := startSession(t, s)
	waitState(t, s, StateOpen)

	conn.failAbnormal()

	err := <-errCh
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, StateDisconnected, s.State())

	// После обрыва должны сработать все пять переподключений,
	// с паузами baseDelay * 1..5
	assert.Equal(t, 6, dialer.dialCount())
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		3 * time.Second,
		4 * time.Second,
		5 * time.Second,
	}, *delays)
}

func TestSession_CloseIsNormalAndIdempotent(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{results: []dialResult{{conn: conn}}}

	s := New(Config{ServerURL: "ws://srv", RoomID: 1}, dialer, nil, testLogger())
	errCh := startSession(t, s)
	waitState(t, s, StateOpen)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.NoError(t, <-errCh)

	assert.Equal(t, StateClosedNormal, s.State())
	// Закрытая сессия не переподключается
	assert.Equal(t, 1, dialer.dialCount())

	err := s.SendErase(1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_ContextCancelStopsRun(t *testing.T) {
	dialer := &fakeDialer{} // dial всегда падает, сессия уходит в backoff

	s := New(Config{ServerURL: "ws://srv", RoomID: 1}, dialer, nil, testLogger())
	s.sleep = sleepWithContext

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return dialer.dialCount() >= 1 },
		time.Second, 5*time.Millisecond)
	cancel()

	err := <-errCh
	require.ErrorIs(t, err, context.Canceled)
}
