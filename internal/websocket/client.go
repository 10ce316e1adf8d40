package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one websocket connection belonging to a family member.
type Client struct {
	hub      *Hub
	conn     *ws.Conn
	familyID string
	userID   string
	send     chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, familyID, userID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		familyID: familyID,
		userID:   userID,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Run registers the client and forwards broadcasts until the peer goes away,
// ctx ends, or the hub drops the client.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// The feed is server-to-client; CloseRead discards inbound frames and
	// cancels ctx once the peer closes.
	ctx = c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(ws.StatusGoingAway, "")
				return
			}
			err = c.write(ctx, msg)
		case <-ticker.C:
			err = c.ping(ctx)
		}
		if err != nil {
			c.hub.logger.Debug("websocket write failed", "user_id", c.userID, "error", err)
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}

func (c *Client) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Ping(ctx)
}
