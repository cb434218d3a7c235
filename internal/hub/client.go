package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 2048
)

// guestName labels unauthenticated participants in status and chat lines.
const guestName = "A guest"

// Client is one websocket participant. Its connection id is the opaque
// token leadership is bound to; it is assigned here and never reused.
//
// roomCode is written only by the hub's event loop.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	id       string
	userID   uint
	username string
	roomCode string
	send     chan []byte
}

// NewClient wraps an upgraded connection. userID is zero for guests.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		id:       uuid.NewString(),
		userID:   userID,
		username: username,
		send:     make(chan []byte, 256),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) UserID() uint { return c.userID }

// DisplayName is the name shown to the room for this participant.
func (c *Client) DisplayName() string {
	if c.username == "" {
		return guestName
	}
	return c.username
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump forwards frames from the websocket to the hub's event loop. The
// deferred unregister is the disconnect signal the whole room lifecycle
// hangs off: an abrupt network drop and a deliberate leave both land here.
func (c *Client) readPump() {
	defer func() {
		c.hub.enqueue(hubMessage{kind: messageUnregister, client: c})
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.id, "user_id": c.userID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("Websocket read error (unexpected close)")
			} else {
				logCtx.Debug("Websocket connection closed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.enqueue(hubMessage{kind: messageFrame, client: c, raw: message})
	}
}

// writePump drains the send channel to the websocket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"conn_id": c.id, "user_id": c.userID}).
					WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
