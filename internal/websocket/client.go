package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"productapi/internal/infrastructure"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Defaults used when no keepalive is configured
	defaultPongWait   = 60 * time.Second
	defaultPingPeriod = (defaultPongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	pingPeriod time.Duration
	pongWait   time.Duration

	logger *slog.Logger

	messagesSent     int64
	messagesReceived int64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTraceID tags the client's logs with the upgrade request's trace id
func WithTraceID(traceID string) ClientOption {
	return func(c *Client) {
		c.traceID = traceID
	}
}

// WithKeepalive overrides the ping period and pong wait. The ping period
// must be shorter than the pong wait; invalid pairs are ignored.
func WithKeepalive(pingPeriod, pongWait time.Duration) ClientOption {
	return func(c *Client) {
		if pingPeriod > 0 && pongWait > pingPeriod {
			c.pingPeriod = pingPeriod
			c.pongWait = pongWait
		}
	}
}

// NewClient creates a client for conn. Use NewConnectionWrapper for a
// gorilla connection.
func NewClient(hub *Hub, conn Connection, logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		id:          uuid.New().String(),
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pingPeriod:  defaultPingPeriod,
		pongWait:    defaultPongWait,
	}
	for _, opt := range opts {
		opt(c)
	}

	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", c.id),
	)
	if c.traceID != "" {
		logger = logger.With(slog.String("trace_id", c.traceID))
	}
	c.logger = logger

	return c
}

// ID returns the client's unique id
func (c *Client) ID() string {
	return c.id
}

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump drains the connection until it fails. Client frames carry no
// meaning beyond keeping the connection alive.
func (c *Client) ReadPump() {
	defer func() {
		c.logger.InfoContext(c.context(), "WebSocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WarnContext(c.context(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.messagesReceived++

		if isHeartbeat(message) {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			c.logger.Debug("Heartbeat received")
			continue
		}
		c.logger.Debug("Ignoring client message", slog.Int("size", len(message)))
	}
}

// WritePump writes hub frames to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(c.context(), "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.WarnContext(c.context(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// Serve registers the client and starts its pumps. On failure the
// connection is closed.
func (c *Client) Serve() error {
	if err := c.hub.Register(c); err != nil {
		c.conn.Close()
		return err
	}
	go c.WritePump()
	go c.ReadPump()
	return nil
}
