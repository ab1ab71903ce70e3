package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/delivery"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The endpoint is authenticated by client name, not by origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

const closeWriteTimeout = time.Second

// wsConn adapts a gorilla websocket to the orchestrator's connection
// interface. Writes are serialized: the listener goroutine and close path
// both write, and gorilla connections allow one concurrent writer.
type wsConn struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *wsConn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsConn) Receive() (string, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *wsConn) Close(reason delivery.CloseReason) error {
	code := websocket.CloseInternalServerErr
	switch reason {
	case delivery.ClosePolicyViolation:
		code = websocket.ClosePolicyViolation
	case delivery.CloseGoingAway:
		code = websocket.CloseGoingAway
	}

	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""), time.Now().Add(closeWriteTimeout))
	c.writeMu.Unlock()

	return c.conn.Close()
}

// handleWebsocket upgrades the request and hands the connection to the
// orchestrator, which owns it until the peer disconnects.
func (a *API) handleWebsocket(c *gin.Context) {
	clientName := c.Param("client_name")
	userID := c.Param("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.lg.Error("websocket upgrade failed",
			zap.String("client", clientName), zap.Error(err))
		return
	}
	ws := &wsConn{conn: conn}
	defer conn.Close()

	if err := a.orchestrator.HandleConnection(c.Request.Context(), ws, clientName, userID); err != nil {
		a.lg.Warn("connection rejected",
			zap.String("client", clientName),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
