package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/metrics"
)

// Hub tracks connected clients and broadcasts frames to all of them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	// sockets counts open connections per owner so a user with two tabs
	// stays online when one closes.
	socketsMu sync.Mutex
	sockets   map[string]int

	metrics *metrics.RealtimeMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewHub builds an idle hub; call Run to start it.
func NewHub(logg *logger.Logger, m *metrics.RealtimeMetrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		sockets:    make(map[string]int),
		metrics:    m,
		logg:       logg,
		now:        time.Now,
	}
}

// Run serves register, unregister and broadcast requests until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll(ctx)
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.metrics.ConnectionOpened()
		case c := <-h.unregister:
			h.remove(c)
		case frame := <-h.broadcast:
			h.fanOut(frame)
		}
	}
}

// Publish broadcasts an event to the clients of this instance.
func (h *Hub) Publish(ctx context.Context, eventType enums.RealtimeEventType, data any) error {
	evt, err := NewEvent(eventType, data, h.now())
	if err != nil {
		return err
	}
	frame, err := encode(evt)
	if err != nil {
		return err
	}
	h.metrics.EventBroadcast(eventType.String())
	return h.deliver(ctx, frame)
}

// deliver queues an already encoded frame.
func (h *Hub) deliver(ctx context.Context, frame []byte) error {
	select {
	case h.broadcast <- frame:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Join records one more socket for owner and returns the new count.
func (h *Hub) Join(owner string) int {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()
	h.sockets[owner]++
	return h.sockets[owner]
}

// Leave drops one socket for owner and returns how many are still open.
func (h *Hub) Leave(owner string) int {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()
	n := h.sockets[owner] - 1
	if n <= 0 {
		delete(h.sockets, owner)
		return 0
	}
	h.sockets[owner] = n
	return n
}

// Sockets reports how many connections owner has open on this instance.
func (h *Hub) Sockets(owner string) int {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()
	return h.sockets[owner]
}

// Register adds c to the hub. It returns false when the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) fanOut(frame []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.metrics.ClientDropped()
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.metrics.ConnectionClosed()
	}
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.Lock()
	var errs error
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		if c.conn != nil {
			errs = multierr.Append(errs, c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second),
			))
		}
		h.metrics.ConnectionClosed()
	}
	h.mu.Unlock()
	if errs != nil && h.logg != nil {
		h.logg.Warn(h.logg.WithField(ctx, "error", errs.Error()), "realtime shutdown close errors")
	}
}
