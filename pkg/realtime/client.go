package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

const maxInboundFrame = 512

// Client is one websocket connection attached to the hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	writeWait   time.Duration
	pongWait    time.Duration
	pingPeriod  time.Duration
	onHeartbeat func(context.Context)
	onConnect   func(context.Context)
}

// NewClient wraps conn. onHeartbeat runs for every pong and heartbeat frame.
func NewClient(hub *Hub, conn *websocket.Conn, cfg config.RealtimeConfig, onHeartbeat func(context.Context)) *Client {
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 64
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, buffer),
		writeWait:   cfg.WriteWait,
		pongWait:    cfg.PongWait,
		pingPeriod:  cfg.PingPeriod(),
		onHeartbeat: onHeartbeat,
	}
}

// OnConnect sets a callback that runs once the hub has registered the client,
// so anything it publishes reaches this connection too.
func (c *Client) OnConnect(fn func(context.Context)) {
	c.onConnect = fn
}

// Serve registers the client and pumps frames until the peer goes away or
// ctx ends. It blocks.
func (c *Client) Serve(ctx context.Context) {
	if !c.hub.Register(c) {
		_ = c.conn.Close()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.onConnect != nil {
		c.onConnect(ctx)
	}

	go c.writePump(ctx)
	c.readPump(ctx)
	c.hub.Unregister(c)
}

func (c *Client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxInboundFrame)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.heartbeat(ctx)
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame struct {
			Type enums.RealtimeEventType `json:"type"`
		}
		if json.Unmarshal(message, &frame) != nil || frame.Type != enums.RealtimeHeartbeat {
			continue
		}
		c.heartbeat(ctx)
		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) heartbeat(ctx context.Context) {
	if c.onHeartbeat != nil {
		c.onHeartbeat(ctx)
	}
}
