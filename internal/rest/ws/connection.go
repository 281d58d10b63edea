package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendQueueFull    = errors.New("send queue is full")
)

type ConnectionConfig struct {
	// WriteTimeout bounds a single frame write
	WriteTimeout time.Duration

	// ReadTimeout is how long the client may stay silent, pongs included
	ReadTimeout time.Duration

	// PingInterval must be shorter than ReadTimeout
	PingInterval time.Duration

	// MaxMessageSize is the largest accepted inbound frame in bytes
	MaxMessageSize int64

	// SendQueueSize is the number of outbound frames buffered per client
	SendQueueSize int
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   54 * time.Second,
		MaxMessageSize: 4096,
		SendQueueSize:  256,
	}
}

// Connection is a client websocket with its own writer goroutine.
type Connection struct {
	ID       string
	Username string

	conn   *websocket.Conn
	send   chan []byte
	closed bool
	mtx    *sync.Mutex

	config ConnectionConfig
	logger *zap.Logger
}

func newConnection(conn *websocket.Conn, username string, config ConnectionConfig, logger *zap.Logger) *Connection {
	id := uuid.NewString()
	return &Connection{
		ID:       id,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, config.SendQueueSize),
		mtx:      &sync.Mutex{},
		config:   config,
		logger:   logger.With(zap.String("connectionID", id), zap.String("username", username)),
	}
}

// Send queues the frame without blocking.
func (c *Connection) Send(payload []byte) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close stops accepting frames. The writer flushes what is queued and then
// closes the socket.
func (c *Connection) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return nil
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// readPump passes every inbound frame to handle until the socket fails.
func (c *Connection) readPump(handle func(msg []byte)) {
	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Unexpected close", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		handle(msg)
		_ = c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}
