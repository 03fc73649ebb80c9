package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-beacon/internal/pkg/presence/domain"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrClosed is returned by Send once the connection has shut down.
var ErrClosed = errors.New("realtime: connection closed")

// ErrBufferFull is returned by Send when the outbound buffer is exhausted;
// the connection is closed as a side effect to keep backpressure bounded.
var ErrBufferFull = errors.New("realtime: send buffer full")

// Connection wraps a websocket and coordinates outbound writes via a buffered
// channel. It is the live transport session behind a presence handle: the
// registry holds it only as a domain.Handle and never owns its lifecycle.
type Connection struct {
	id       string
	Identity string // bound identity; set by the socket controller on register

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

var _ domain.Handle = (*Connection)(nil)

// NewConnection constructs a Connection around an upgraded websocket.
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		id:    uuid.NewString(),
		ws:    ws,
		send:  make(chan []byte, 128),
		close: make(chan struct{}),
	}
}

// SessionID uniquely identifies this transport session.
func (c *Connection) SessionID() string {
	return c.id
}

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery without blocking. Once the connection
// has shut down it returns ErrClosed; a delivery racing a concurrent Close
// is a benign lost update, never a panic. If the client is slow and the
// buffer is full, the connection is closed.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return ErrClosed
	default:
	}

	// c.send is never closed, so enqueueing here is safe even if Close wins
	// the race after the check above; the write loop has exited and the
	// payload is simply dropped with the connection.
	select {
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return ErrBufferFull
	}
}

// Close terminates the connection and stops the write loop. The send channel
// stays open; shutdown is signaled through c.close alone so concurrent
// senders fail soft instead of hitting a closed channel.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
