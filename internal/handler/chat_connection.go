package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"FouserBot/internal/orchestrator"
	"FouserBot/internal/storage"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatGateway exposes the conversation engine over HTTP/WebSocket for
// browser clients, mirroring the Telegram flow.
type ChatGateway struct {
	orch  *orchestrator.Orchestrator
	store *storage.Store
}

func NewChatGateway(orch *orchestrator.Orchestrator, store *storage.Store) *ChatGateway {
	return &ChatGateway{orch: orch, store: store}
}

// wsEvent is one frame sent to the client.
type wsEvent struct {
	Type string `json:"type"` // "typing" or "message"
	Text string `json:"text,omitempty"`
}

// HandleChat godoc
// @Summary      Chat WebSocket connection
// @Description  Opens a WebSocket session with the AI coach for one user identity.
// @Description  <br>
// @Description  **Note: this is not a standard HTTP API.**
// @Description  Clients must connect with the `ws://` or `wss://` scheme. Each text
// @Description  frame is one user message; `/reset` clears the model session. The
// @Description  server answers with JSON frames: `{"type":"typing"}` before the model
// @Description  is invoked and `{"type":"message","text":...}` with the reply.
// @Tags         WebSocket (Chat)
// @Param        user_id query     int  true  "Stable numeric user identity"
// @Success      101     {string}  string  "101 Switching Protocols"
// @Failure      400     {object}  map[string]string "Missing or invalid user_id"
// @Router       /ws/chat [get]
func (g *ChatGateway) HandleChat(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("HandleChat(): failed to upgrade to WebSocket for user %d: %v", userID, err)
		return
	}
	g.manageChatSession(conn, userID, c)
}

func (g *ChatGateway) manageChatSession(conn *websocket.Conn, userID int64, c *gin.Context) {
	defer conn.Close()
	log.Printf("manageChatSession(): started for user %d", userID)

ReadLoop:
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("manageChatSession(): error reading message from user %d: %v", userID, err)
			break ReadLoop
		}
		if messageType != websocket.TextMessage {
			log.Printf("manageChatSession(): unsupported message type from user %d: %d", userID, messageType)
			continue
		}

		text := strings.TrimSpace(string(message))
		if text == "" {
			continue
		}

		var reply string
		if text == "/reset" {
			reply = g.orch.Reset(userID)
		} else {
			g.writeEvent(conn, userID, wsEvent{Type: "typing"})
			reply = g.orch.HandleMessage(c.Request.Context(), userID, text)
		}

		if !g.writeEvent(conn, userID, wsEvent{Type: "message", Text: reply}) {
			break ReadLoop
		}
	}
	log.Printf("manageChatSession(): ended for user %d", userID)
}

func (g *ChatGateway) writeEvent(conn *websocket.Conn, userID int64, ev wsEvent) bool {
	if err := conn.WriteJSON(ev); err != nil {
		log.Printf("writeEvent(): error sending %s event to user %d: %v", ev.Type, userID, err)
		return false
	}
	return true
}
