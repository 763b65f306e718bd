package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Connection is one renderer. Writes go through a buffered queue drained by
// writeLoop so the tick goroutine never blocks on the network.
type Connection struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration
	connectedAt  time.Time

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closed    int32

	messagesSent uint64
	bytesSent    uint64
	dropped      uint64
}

func newConnection(conn *websocket.Conn, buffer int, writeTimeout time.Duration) *Connection {
	if buffer <= 0 {
		buffer = 1
	}
	return &Connection{
		id:           uuid.New().String(),
		conn:         conn,
		writeTimeout: writeTimeout,
		connectedAt:  time.Now(),
		send:         make(chan []byte, buffer),
		done:         make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *Connection) ConnectedAt() time.Time { return c.connectedAt }

// Enqueue queues data without blocking. A full queue fails with ErrSlowClient.
func (c *Connection) Enqueue(data []byte) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		atomic.AddUint64(&c.dropped, 1)
		return ErrSlowClient
	}
}

func (c *Connection) IsClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Connection) writeLoop() error {
	for {
		select {
		case <-c.done:
			return nil
		case data := <-c.send:
			if err := c.write(data); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) write(data []byte) error {
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	atomic.AddUint64(&c.messagesSent, 1)
	atomic.AddUint64(&c.bytesSent, uint64(len(data)))
	return nil
}

// readLoop discards inbound frames and reports when the peer goes away.
func (c *Connection) readLoop() error {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(err, "failed to read message")
		}
	}
}

// CloseWithReason sends a close frame and closes the socket. Multiple calls
// are safe.
func (c *Connection) CloseWithReason(reason string) error {
	var err error
	c.closeOnce.Do(func() {
		atomic.StoreInt32(&c.closed, 1)
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}

func (c *Connection) Close() error { return c.CloseWithReason("connection closed") }

type ConnectionMetrics struct {
	MessagesSent uint64
	BytesSent    uint64
	Dropped      uint64
}

func (c *Connection) Metrics() ConnectionMetrics {
	return ConnectionMetrics{
		MessagesSent: atomic.LoadUint64(&c.messagesSent),
		BytesSent:    atomic.LoadUint64(&c.bytesSent),
		Dropped:      atomic.LoadUint64(&c.dropped),
	}
}
