package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/db"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type hub struct {
	chatID  string
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[string]*hub)
)

func getHub(chatID string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[chatID]; ok {
		return h
	}
	h := &hub{chatID: chatID, clients: make(map[*websocket.Conn]bool)}
	hubs[chatID] = h
	return h
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// BroadcastNewMessage pushes a message event to everyone subscribed to the chat.
func BroadcastNewMessage(chatID string, data interface{}) {
	getHub(chatID).broadcast(wsEvent{Type: "message:new", Data: data})
}

// ChatWS - websocket for realtime updates on a chat thread.
func ChatWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	chatID := c.Param("id")
	if chatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing chat id"})
	}

	var clientID, freelancerID string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT client_id, freelancer_id FROM chats WHERE id = $1`, chatID,
	).Scan(&clientID, &freelancerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
	}
	if userID != clientID && userID != freelancerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this chat"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h := getHub(chatID)
	h.register(conn)
	defer func() {
		h.unregister(conn)
		_ = conn.Close()
	}()

	// Reads are only used to detect disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
