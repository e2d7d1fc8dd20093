package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
)

const (
	// TradeChannelPrefix prefixes the symbol in WebSocket trade channels.
	TradeChannelPrefix = "trades:"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced by the HTTP handler chain.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TradeChannel returns the WebSocket channel carrying trades of symbol.
func TradeChannel(symbol string) string {
	return TradeChannelPrefix + symbol
}

// Hub keeps the connected WebSocket clients and fans trades out to the ones
// subscribed to the trade channel of the symbol.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	scale  fixedpoint.Scale
	logger *logger.Logger
}

var _ matchpublisherv1.MatchPublisher = (*Hub)(nil)

// NewHub creates a new WebSocket hub.
func NewHub(scale fixedpoint.Scale, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		scale:      scale,
		logger:     log,
	}
}

// Run processes registrations until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("WebSocket client connected",
				logger.NewField("client", client.id),
				logger.NewField("total", total),
			)

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("WebSocket client disconnected",
			logger.NewField("client", client.id),
			logger.NewField("total", len(h.clients)),
		)
	}
}

// Name implements MatchPublisher.
func (h *Hub) Name() string {
	return config.PublisherWebSocket
}

// PublishTrades sends each trade to the subscribers of its symbol channel.
// Slow clients whose buffer is full miss the message.
func (h *Hub) PublishTrades(ctx context.Context, trades []orderbookv1.TradeEvent) error {
	for _, trade := range trades {
		msg := matchpublisherv1.NewTradeMessage(trade, h.scale)
		h.BroadcastToChannel(TradeChannel(trade.Symbol), msg.ToBytes())
	}
	return nil
}

// BroadcastToChannel sends message to all clients subscribed to channel.
func (h *Hub) BroadcastToChannel(channel string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.IsSubscribed(channel) {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.logger.Warn("WebSocket client buffer full, dropping message",
				logger.NewField("client", client.id),
				logger.NewField("channel", channel),
			)
		}
	}
}

// Subscribers counts the clients subscribed to channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for client := range h.clients {
		if client.IsSubscribed(channel) {
			n++
		}
	}
	return n
}

// Client is one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	subscriptions map[string]bool
	subsMu        sync.RWMutex
}

// IsSubscribed checks if client is subscribed to a channel.
func (c *Client) IsSubscribed(channel string) bool {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	return c.subscriptions[channel]
}

func (c *Client) subscribe(channels []string, on bool) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	for _, channel := range channels {
		if on {
			c.subscriptions[channel] = true
		} else {
			delete(c.subscriptions, channel)
		}
	}
}

// readPump applies subscription requests until the connection fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket read failed",
					logger.NewField("client", c.id),
					logger.NewField("error", err.Error()),
				)
			}
			return
		}

		var req WSSubscribeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.hub.logger.Debug("Ignoring invalid WebSocket message", logger.NewField("client", c.id))
			continue
		}

		switch req.Op {
		case "subscribe":
			c.subscribe(req.Channels, true)
		case "unsubscribe":
			c.subscribe(req.Channels, false)
		default:
			c.hub.logger.Debug("Unknown WebSocket op",
				logger.NewField("client", c.id),
				logger.NewField("op", req.Op),
			)
		}
	}
}

// writePump writes queued messages, one frame each, and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "WebSocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	client := &Client{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		id:            uuid.NewString(),
		subscriptions: make(map[string]bool),
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
