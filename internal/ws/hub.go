package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"tictac-arena/internal/arena"
	"tictac-arena/internal/identity"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendBuffer     = 32
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
	resolveTimeout = 5 * time.Second
)

// Arena is the slice of the coordinator the socket layer drives.
type Arena interface {
	JoinQueue(ctx context.Context, connID string, req identity.Request) error
	LeaveQueue(connID string)
	CreatePrivate(ctx context.Context, connID string, req identity.Request, password string) (string, error)
	JoinPrivate(ctx context.Context, connID, roomID string, req identity.Request, password string) error
	StartAIGame(ctx context.Context, connID string, req identity.Request, difficulty string) (string, error)
	Bind(ctx context.Context, connID, sessionID string, req identity.Request) error
	MakeMove(connID, sessionID string, cell int) error
	ConnectionLost(connID string)
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub owns every open socket and implements arena.Notifier.
type Hub struct {
	arena    Arena
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
}

var _ arena.Notifier = (*Hub)(nil)

func NewHub(a Arena) *Hub {
	return &Hub{
		arena:    a,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[string]*Client{},
	}
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &Client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	connected := len(h.clients)
	h.mu.Unlock()
	metricConnectionsTotal.Add(1)
	metricConnectionsActive.Set(int64(connected))
	log.Debug().Str("conn_id", c.id).Msg("ws_connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

// Send queues msg for connID without blocking. A client whose buffer is
// full is disconnected.
func (h *Hub) Send(connID string, msg any) {
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("conn_id", connID).Msg("ws_encode_failed")
		return
	}
	h.mu.Lock()
	c := h.clients[connID]
	h.mu.Unlock()
	if c == nil {
		return
	}
	if !safeSend(c.send, raw) {
		metricSendDropped.Add(1)
		log.Warn().Str("conn_id", connID).Msg("ws_send_buffer_full")
		_ = c.conn.Close()
	}
}

func (h *Hub) ConnectedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) readLoop(c *Client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(c, arena.ErrInvalidRequest)
			continue
		}
		if err := h.dispatch(c, msg); err != nil {
			h.sendError(c, err)
		}
	}
}

func (h *Hub) dispatch(c *Client, msg ClientMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	req := identity.Request{Token: msg.Token, Identity: msg.Identity, DisplayName: msg.DisplayName}

	switch msg.Type {
	case TypeJoinQueue:
		return h.arena.JoinQueue(ctx, c.id, req)
	case TypeLeaveQueue:
		h.arena.LeaveQueue(c.id)
		return nil
	case TypeCreatePrivate:
		_, err := h.arena.CreatePrivate(ctx, c.id, req, msg.Password)
		return err
	case TypeJoinPrivate:
		return h.arena.JoinPrivate(ctx, c.id, msg.RoomID, req, msg.Password)
	case TypeStartAIGame:
		_, err := h.arena.StartAIGame(ctx, c.id, req, msg.Difficulty)
		return err
	case TypeJoinGame, TypeJoinAIGame:
		return h.arena.Bind(ctx, c.id, msg.SessionID, req)
	case TypeMakeMove:
		if msg.CellIndex == nil || msg.SessionID == "" {
			return arena.ErrInvalidRequest
		}
		return h.arena.MakeMove(c.id, msg.SessionID, *msg.CellIndex)
	default:
		return arena.ErrInvalidRequest
	}
}

func (h *Hub) sendError(c *Client, err error) {
	em := arena.NewErrorMessage(err)
	if em.Reason == "internal_error" {
		log.Error().Err(err).Str("conn_id", c.id).Msg("ws_request_failed")
	}
	raw, _ := json.Marshal(em)
	safeSend(c.send, raw)
}

func (h *Hub) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	connected := len(h.clients)
	h.mu.Unlock()
	metricConnectionsActive.Set(int64(connected))
	log.Debug().Str("conn_id", c.id).Msg("ws_disconnected")

	h.arena.ConnectionLost(c.id)
	safeClose(c.send)
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

// safeSend reports false when the buffer is full. Sends on a closed channel
// are dropped.
func safeSend(ch chan []byte, msg []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}
