package wirefx

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const _writeTimeout = 10 * time.Second

//go:generate mockgen -source=conn.go -destination=wiremock/conn_mock.go -package=wiremock

// Conn is one framed, ordered, reliable peer connection. Implementations must
// support one concurrent reader and any number of concurrent writers.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() ([]byte, error)
	Close() error
	RemoteAddr() string
}

type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewConn wraps a WebSocket connection for use as a peer Conn.
func NewConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(_writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
