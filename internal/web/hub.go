package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/andrewchiang3/pitcher-plinko/internal/ingest"
)

// Hub fans load job progress out to connected websocket clients.
type Hub struct {
	logger *slog.Logger

	clients    map[*wsClient]bool
	broadcast  chan ingest.Progress
	register   chan *wsClient
	unregister chan *wsClient

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a progress hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan ingest.Progress, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Start begins the fan-out loop.
func (h *Hub) Start(ctx context.Context) error {
	h.ctx, h.cancel = context.WithCancel(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.run()
	}()
	return nil
}

// Stop shuts the hub down and disconnects clients.
func (h *Hub) Stop(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleProgress implements ingest.ProgressHandler. Events are dropped if
// the broadcast queue is full; the websocket feed is advisory.
func (h *Hub) HandleProgress(p ingest.Progress) {
	select {
	case h.broadcast <- p:
	default:
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("websocket client connected", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.logger.Debug("websocket client disconnected", "clients", len(h.clients))

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("marshaling progress event failed", "err", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow client; drop it rather than block the feed.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (c *wsClient) readPump() {
	defer func() {
		// After Stop the fan-out loop is gone; don't block on it.
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "err", err)
			}
			return
		}
		// Client messages are ignored; the feed is one-way.
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
