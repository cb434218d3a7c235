package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"homestream/internal/hub"
	"homestream/internal/middleware"
)

// WebSocketHandler upgrades /ws/party connections and hands them to the
// hub. Identity is optional here: the OptionalAuth middleware sets it when
// a token was presented, and everyone else connects as a guest.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

func NewWebSocketHandler(h *hub.Hub) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict origins once the deployment hostname is fixed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		hub: h,
	}
}

// HandleConnection upgrades the request and registers the client. The room
// is not named here; the client announces it with a join frame once the
// socket is up.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	username := c.GetString(middleware.CtxUsername)
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "remote": c.ClientIP()})

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, userID, username)
	h.hub.Register(client)
	logCtx.WithField("conn_id", client.ID()).Info("Websocket client connected")
}
