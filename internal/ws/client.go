package ws

import (
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client adapts a websocket connection to the Subscriber interface used by
// the hub. It carries the subscribing user's id for log attribution.
type Client struct {
	conn   *websocket.Conn
	log    *slog.Logger
	userID string
}

// NewClient constructs a board stream client for an authenticated user.
func NewClient(conn *websocket.Conn, logger *slog.Logger, userID string) *Client {
	return &Client{conn: conn, log: logger, userID: userID}
}

// Send writes a board event to the connection. A failed write closes the
// connection; the hub drops the subscriber on error.
func (c *Client) Send(payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.log.Warn("board stream send failed", "user_id", c.userID, "error", err)
		_ = c.conn.Close()
		return err
	}
	return nil
}

// Close terminates the connection.
func (c *Client) Close() {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = c.conn.Close()
}
