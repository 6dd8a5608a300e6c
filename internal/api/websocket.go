package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"maitred/internal/engine"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSConnection maintains one conversational WebSocket with a client. Each
// inbound frame is an utterance, each outbound frame an engine result.
type WSConnection struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	resolver  *engine.Resolver
}

type wsError struct {
	Error string `json:"error"`
}

// HandleWebSocket upgrades the request and runs the conversation pumps
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &WSConnection{
		conn:      conn,
		send:      make(chan []byte, 16),
		sessionID: uuid.NewString(),
		resolver:  s.resolver,
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump pumps utterances from the WebSocket connection into the engine
func (c *WSConnection) readPump() {
	// The request context is canceled as soon as the upgrade handler
	// returns, so turns run on a context tied to the connection instead.
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req ChatRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.reply(wsError{Error: "invalid message: " + err.Error()})
			continue
		}
		if req.SessionID == "" {
			req.SessionID = c.sessionID
		}

		result, err := c.resolver.HandleUtterance(ctx, req.SessionID, req.Text, req.coordinate())
		if err != nil {
			c.reply(wsError{Error: err.Error()})
			continue
		}
		c.reply(result)
	}
}

func (c *WSConnection) reply(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal WebSocket reply: %v", err)
		return
	}
	// A full buffer means the writer is gone or the client stopped reading.
	// Dropping the frame keeps the read loop from blocking forever.
	select {
	case c.send <- payload:
	default:
		log.Printf("WebSocket send buffer full for session %s, dropping frame", c.sessionID)
	}
}

// writePump pumps engine results from the send channel to the client
func (c *WSConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
