package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 20
	sendBuffer = 256
)

// Client is one websocket connection.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	watching string

	mu      sync.Mutex
	cancel  context.CancelFunc
	streams sync.WaitGroup
}

// Hub tracks connected clients and the tables they watch.
type Hub struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client // table name -> client id -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	simulator Simulator
	log       *zap.Logger
}

// NewHub builds a hub. allowedOrigin restricts upgrades to one origin; empty
// allows any.
func NewHub(sim Simulator, allowedOrigin string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
		simulator: sim,
		log:       log,
	}
}

// Run services register/unregister until ctx ends. On shutdown every open
// connection is closed; clients then remove themselves.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.RLock()
			for _, c := range h.clients {
				c.conn.Close()
			}
			h.mu.RUnlock()
			h.log.Info("[WS] hub stopped")
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Debug("[WS] client connected", zap.String("client", c.id))
		case c := <-h.unregister:
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		h.leaveLocked(c)
		close(c.send)
	}
	h.mu.Unlock()
	h.log.Debug("[WS] client disconnected", zap.String("client", c.id))
}

// ClientCount is the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) watch(c *Client, table string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c)
	if table == "" {
		return
	}
	room, ok := h.rooms[table]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[table] = room
	}
	room[c.id] = c
	c.watching = table
}

func (h *Hub) leaveLocked(c *Client) {
	if c.watching == "" {
		return
	}
	if room, ok := h.rooms[c.watching]; ok {
		delete(room, c.id)
		if len(room) == 0 {
			delete(h.rooms, c.watching)
		}
	}
	c.watching = ""
}

// BroadcastToTable sends message to every client watching table. Slow
// clients drop the message.
func (h *Hub) BroadcastToTable(table string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("[WS] marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[table] {
		select {
		case c.send <- data:
		default:
			h.log.Warn("[WS] send buffer full, dropping message",
				zap.String("client", c.id), zap.String("table", table))
		}
	}
}

// Handle upgrades the request and starts the client pumps.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("[WS] upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.stopStream()
		c.streams.Wait()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
			c.hub.remove(c)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("[WS] unexpected close", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Debug("[WS] write failed", zap.String("client", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue blocks until the frame is queued or ctx ends.
func (c *Client) enqueue(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) stopStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
