package recognition

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/core"
)

// wsConn serializes writes and keeps a websocket alive with pings
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	done     chan struct{}
	doneOnce sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	c := &wsConn{conn: conn, done: make(chan struct{})}

	conn.SetReadLimit(constants.WSReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(constants.WSPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(constants.WSPongWait))
	})
	return c
}

// keepalive pings until the connection is shut
func (c *wsConn) keepalive() {
	core.Go(func() {
		ticker := time.NewTicker(constants.WSPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-c.done:
				return
			}
		}
	})
}

// extendRead refreshes the read deadline after application traffic
func (c *wsConn) extendRead() {
	_ = c.conn.SetReadDeadline(time.Now().Add(constants.WSPongWait))
}

func (c *wsConn) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WSWriteWait))
	return c.conn.WriteMessage(messageType, data)
}

// shutdown sends a normal close frame and closes the socket, once
func (c *wsConn) shutdown(reason string) error {
	var err error
	c.doneOnce.Do(func() {
		close(c.done)
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
