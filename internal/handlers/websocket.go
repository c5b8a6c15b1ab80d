package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"casino-miniapp-backend/internal/models"
)

// walletReader is the only store access the websocket surface needs.
type walletReader interface {
	GetWallet(ctx context.Context, userID int64) (*models.WalletBalance, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler gives clients the read-only wallet subscription plus
// live crash round ticks. It implements engine.Broadcaster. Every write to
// a connection goes through the hub goroutine; gorilla/websocket forbids
// concurrent writers on one conn.
type WebSocketHandler struct {
	store walletReader
	hub   *WebSocketHub
}

type WebSocketHub struct {
	clients    map[int64]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	UserID int64
	Conn   *websocket.Conn
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler(store walletReader) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[int64]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		store: store,
		hub:   hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(c, client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			h.sendPong(client)
		}
	}
}

func (h *WebSocketHandler) sendBalance(c *gin.Context, client *Client) {
	wallet, err := h.store.GetWallet(c.Request.Context(), client.UserID)
	if err != nil {
		log.Printf("Failed to get wallet for WS: %v", err)
		return
	}

	h.hub.broadcast <- &Message{
		Type:   "BALANCE_UPDATE",
		UserID: client.UserID,
		Data:   walletPayload(wallet),
	}
}

func (h *WebSocketHandler) sendPong(client *Client) {
	h.hub.broadcast <- &Message{
		Type:   "PONG",
		UserID: client.UserID,
		Data:   gin.H{"timestamp": time.Now().Unix()},
	}
}

// BalanceUpdate implements engine.Broadcaster.
func (h *WebSocketHandler) BalanceUpdate(userID int64, wallet *models.WalletBalance) {
	h.hub.broadcast <- &Message{
		Type:   "BALANCE_UPDATE",
		UserID: userID,
		Data:   walletPayload(wallet),
	}
}

// CrashTick implements engine.Broadcaster.
func (h *WebSocketHandler) CrashTick(userID int64, roundID string, multiplier float64) {
	h.hub.broadcast <- &Message{
		Type:   "GAME_UPDATE",
		UserID: userID,
		Data: gin.H{
			"round_id":   roundID,
			"multiplier": multiplier,
			"timestamp":  time.Now().Unix(),
		},
	}
}

// CrashEnded implements engine.Broadcaster.
func (h *WebSocketHandler) CrashEnded(userID int64, roundID string, crashPoint float64) {
	h.hub.broadcast <- &Message{
		Type:   "GAME_CRASH",
		UserID: userID,
		Data: gin.H{
			"round_id":    roundID,
			"crash_point": crashPoint,
			"timestamp":   time.Now().Unix(),
		},
	}
}

func walletPayload(wallet *models.WalletBalance) gin.H {
	return gin.H{
		"balance":       wallet.Optimistic,
		"authoritative": wallet.Authoritative,
		"synced":        wallet.Synced,
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.UserID] = client.Conn
			log.Printf("Client registered: %d", client.UserID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.UserID]; ok {
				delete(hub.clients, client.UserID)
				log.Printf("Client unregistered: %d", client.UserID)
			}

		case message := <-hub.broadcast:
			hub.send(message)
		}
	}
}

func (hub *WebSocketHub) send(message *Message) {
	if message.UserID != 0 {
		if conn, ok := hub.clients[message.UserID]; ok {
			conn.WriteJSON(message)
		}
		return
	}
	for _, conn := range hub.clients {
		conn.WriteJSON(message)
	}
}
