// Package realtime доставляет события пользователям по WebSocket.
// Hub создаётся при старте процесса и передаётся туда, где нужны push-события.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ErrClosed возвращается при регистрации соединения в закрытом хабе.
var ErrClosed = errors.New("realtime: hub closed")

// Frame формат сообщения клиенту.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Recorder принимает метрики соединений.
type Recorder interface {
	ConnectionOpened()
	ConnectionClosed()
}

// Conn соединение пользователя. Запись сериализуется мьютексом.
type Conn struct {
	ws        *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

// NewConn оборачивает установленное WebSocket-соединение.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) write(messageType int, data []byte, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		_ = c.write(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
		_ = c.ws.Close()
	})
}

// Hub реестр соединений по пользователям.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*Conn]struct{}
	closed   bool
	log      *slog.Logger
	recorder Recorder
}

// NewHub создаёт Hub. recorder может быть nil.
func NewHub(log *slog.Logger, recorder Recorder) *Hub {
	return &Hub{
		conns:    make(map[string]map[*Conn]struct{}),
		log:      log,
		recorder: recorder,
	}
}

// Register добавляет соединение пользователя.
func (h *Hub) Register(userID string, conn *Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[userID] = set
	}
	set[conn] = struct{}{}
	if h.recorder != nil {
		h.recorder.ConnectionOpened()
	}
	return nil
}

// Unregister удаляет соединение и закрывает его.
func (h *Hub) Unregister(userID string, conn *Conn) {
	h.mu.Lock()
	removed := false
	if set, ok := h.conns[userID]; ok {
		if _, ok := set[conn]; ok {
			delete(set, conn)
			removed = true
		}
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
	h.mu.Unlock()

	if removed && h.recorder != nil {
		h.recorder.ConnectionClosed()
	}
	conn.close()
}

// Connections число открытых соединений пользователя.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// EmitToUser отправляет событие во все соединения пользователя.
// Если соединений нет, событие молча отбрасывается.
func (h *Hub) EmitToUser(ctx context.Context, userID, event string, payload any) error {
	const op = "realtime.EmitToUser"

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return nil
	}
	targets := make([]*Conn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	data, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var errs []error
	for _, c := range targets {
		if err := c.write(websocket.TextMessage, data, deadline); err != nil {
			h.log.Warn("failed to write frame, dropping connection", sl.Op(op), slog.String("user_id", userID), sl.Err(err))
			h.Unregister(userID, c)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return nil
}

// Serve регистрирует соединение и обслуживает его до закрытия клиентом,
// отмены ctx или закрытия хаба.
func (h *Hub) Serve(ctx context.Context, userID string, ws *websocket.Conn) error {
	conn := NewConn(ws)
	if err := h.Register(userID, conn); err != nil {
		conn.close()
		return err
	}
	defer h.Unregister(userID, conn)

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.write(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-ctx.Done():
				conn.close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed", slog.String("user_id", userID), sl.Err(err))
			}
			return nil
		}
	}
}

// Close закрывает все соединения. После закрытия события отбрасываются.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	all := h.conns
	h.conns = make(map[string]map[*Conn]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			if h.recorder != nil {
				h.recorder.ConnectionClosed()
			}
			c.close()
		}
	}
}
