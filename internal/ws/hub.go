package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(fn func(*websocket.Conn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fn(c.conn)
}

// Hub streams delivery status events to websocket subscribers of each delivery.
type Hub struct {
	logger   logx.Logger
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

// NewHub creates a Hub; an empty origins list accepts any origin.
func NewHub(logger logx.Logger, origins []string) *Hub {
	if logger == nil {
		logger = logx.Nop()
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[strings.TrimRight(origin, "/")]
				return ok
			},
		},
		subs: make(map[string]map[*client]struct{}),
	}
}

// Serve upgrades the request and subscribes the connection to deliveryID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, deliveryID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", logx.String("delivery_id", deliveryID), logx.Err(err))
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	set, ok := h.subs[deliveryID]
	if !ok {
		set = make(map[*client]struct{})
		h.subs[deliveryID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("ws subscribed", logx.String("delivery_id", deliveryID))

	done := make(chan struct{})
	go h.pingLoop(c, done)
	go h.readLoop(deliveryID, c, done)
}

func (h *Hub) pingLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(func(conn *websocket.Conn) error {
				return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			}); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so control messages are handled.
func (h *Hub) readLoop(deliveryID string, c *client, done chan<- struct{}) {
	defer func() {
		close(done)
		h.remove(deliveryID, c)
	}()

	c.conn.SetReadLimit(4 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Hub) remove(deliveryID string, c *client) {
	_ = c.conn.Close()
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[deliveryID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.subs, deliveryID)
	}
}

// Subscribers returns the number of connections watching deliveryID.
func (h *Hub) Subscribers(deliveryID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[deliveryID])
}

// Publish sends e to every subscriber of its delivery.
// Failed connections are dropped; Publish itself never fails.
func (h *Hub) Publish(_ context.Context, e domain.StatusEvent) error {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[e.DeliveryID]))
	for c := range h.subs[e.DeliveryID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := message{
		Type:   "status_changed",
		Event:  e,
		Badge:  domain.Badge(e.To),
		Next:   domain.NextStatuses(e.To),
		SentAt: time.Now().UTC(),
	}
	for _, c := range clients {
		if err := c.write(func(conn *websocket.Conn) error { return conn.WriteJSON(msg) }); err != nil {
			h.logger.Debug("ws write failed", logx.String("delivery_id", e.DeliveryID), logx.Err(err))
			h.remove(e.DeliveryID, c)
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.subs {
		for c := range set {
			_ = c.write(func(conn *websocket.Conn) error {
				return conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(writeWait))
			})
			_ = c.conn.Close()
		}
		delete(h.subs, id)
	}
}

type message struct {
	Type   string                  `json:"type"`
	Event  domain.StatusEvent      `json:"event"`
	Badge  domain.StatusBadge      `json:"badge"`
	Next   []domain.DeliveryStatus `json:"next_statuses"`
	SentAt time.Time               `json:"sent_at"`
}
