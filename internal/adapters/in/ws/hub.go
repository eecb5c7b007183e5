// Package ws pushes order notifications to connected portal sessions.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 256
)

var ErrHubStopped = errors.New("notification hub is stopped")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Portals are served from other origins; the token is the credential.
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Authenticator resolves the token query parameter of a connection.
type Authenticator interface {
	Actor(raw string) (kernel.Actor, error)
}

// Message is what a portal receives for one notify effect.
type Message struct {
	Type        string             `json:"type"`
	OrderID     int64              `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Action      order.Action       `json:"action"`
	Status      order.Presentation `json:"status"`
	Text        string             `json:"message"`
}

// Client is one connected session.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	actor kernel.Actor
	send  chan []byte
}

type delivery struct {
	audience   kernel.Role
	audienceID int64
	payload    []byte
}

// Hub tracks sessions by actor and implements ports.Notifier. A notification
// reaches every session of the addressed party; admin notifications reach
// every admin session. Sessions that are not connected miss it.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		deliver:    make(chan delivery),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws_hub"),
	}
}

// Run dispatches until ctx is cancelled, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
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
			h.mu.Unlock()
			h.logger.DebugContext(ctx, "WebSocket client connected", "actor", client.actor.String())
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.DebugContext(ctx, "WebSocket client disconnected", "actor", client.actor.String())
			}
			h.mu.Unlock()
		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients {
				if !d.matches(client.actor) {
					continue
				}
				select {
				case client.send <- d.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (d delivery) matches(actor kernel.Actor) bool {
	if actor.Role != d.audience {
		return false
	}
	return d.audience == kernel.RoleAdmin || actor.ID == d.audienceID
}

// Connected returns the number of registered sessions.
func (h *Hub) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Notify(ctx context.Context, e effect.Effect) error {
	payload, err := json.Marshal(Message{
		Type:        "order.status_changed",
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		Action:      e.Action,
		Status:      e.Status.Presentation(),
		Text:        e.Message,
	})
	if err != nil {
		return err
	}

	select {
	case h.deliver <- delivery{audience: e.Audience, audienceID: e.AudienceID, payload: payload}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWs upgrades GET requests that carry a valid token query parameter.
func (h *Hub) ServeWs(auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := c.QueryParam("token")
		if tokenString == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		actor, err := auth.Actor(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.logger.WarnContext(c.Request().Context(), "WebSocket upgrade failed", "error", err)
			return nil
		}

		client := &Client{hub: h, conn: conn, actor: actor, send: make(chan []byte, sendBuffer)}
		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.Close()
			return nil
		}

		go client.writePump()
		go client.readPump()
		return nil
	}
}

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

// readPump only keeps the connection alive; portals never send messages.
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
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket read failed", "actor", c.actor.String(), "error", err)
			}
			return
		}
	}
}
