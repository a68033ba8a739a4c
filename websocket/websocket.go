// Package websocket 實作聊天與媒合狀態的即時轉發。
// 注意:加入房間不做授權檢查，知道房間 ID 的連線就能收到該房間的訊息，
// 這沿用既有的前端約定，房間 ID 由雙方使用者 ID 組成、不對外列舉。
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"skillswap/backend/database"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// 將訊息寫入到遠端對等點的最長時間
	writeWait = 10 * time.Second

	// 允許從遠端對等點讀取下一個 pong 訊息的最長時間
	pongWait = 60 * time.Second

	// 發送 ping 訊息給遠端對等點的週期
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client 代表一個 WebSocket 客戶端連線
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte // 已編碼好的出站 frame
	SessionID string      // 連線時分配的不透明識別碼
	UserID    string      // 可選，從 query 參數帶入，用於線上狀態
}

// joinRequest 表示把某個連線加進某個房間
type joinRequest struct {
	client *Client
	roomID string
}

// broadcastRequest 表示要轉發給房間內其他成員的 frame
type broadcastRequest struct {
	roomID string
	sender *Client
	frame  []byte
}

// Hub 維護房間與成員的對應，並處理訊息的轉發。
// 所有狀態只在 Run 迴圈這一個 goroutine 中讀寫。
type Hub struct {
	rooms      map[string]map[*Client]bool // roomID -> 成員集合
	clients    map[*Client]map[string]bool // client -> 它加入的房間
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan broadcastRequest
	stop       chan struct{}
}

// NewHub 創建並返回一個新的 Hub 實例
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan broadcastRequest),
		stop:       make(chan struct{}),
	}
}

// Run 啟動 Hub 的運行迴圈，應在獨立的 goroutine 中呼叫
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = make(map[string]bool)
			log.Printf("New client connected: %s", client.SessionID)

		case client := <-h.unregister:
			h.removeClient(client)

		case req := <-h.join:
			if _, ok := h.clients[req.client]; !ok {
				continue // 已斷線的連線不再加入房間
			}
			if _, ok := h.rooms[req.roomID]; !ok {
				h.rooms[req.roomID] = make(map[*Client]bool)
			}
			h.rooms[req.roomID][req.client] = true
			h.clients[req.client][req.roomID] = true
			log.Printf("Client %s joined room: %s", req.client.SessionID, req.roomID)

		case req := <-h.broadcast:
			// 轉發給同房間的其他成員；送不進緩衝的慢接收者直接斷開
			for client := range h.rooms[req.roomID] {
				if client == req.sender {
					continue
				}
				select {
				case client.send <- req.frame:
				default:
					log.Printf("Client %s send buffer full, dropping connection", client.SessionID)
					h.removeClient(client)
				}
			}

		case <-h.stop:
			for client := range h.clients {
				h.removeClient(client)
			}
			return
		}
	}
}

// Stop 結束運行迴圈並斷開所有連線，供伺服器關閉時呼叫
func (h *Hub) Stop() {
	close(h.stop)
}

// removeClient 把連線從它加入的所有房間移除，空房間順手刪掉
func (h *Hub) removeClient(client *Client) {
	roomIDs, ok := h.clients[client]
	if !ok {
		return
	}
	for roomID := range roomIDs {
		delete(h.rooms[roomID], client)
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.clients, client)
	close(client.send)
	log.Printf("Client disconnected: %s", client.SessionID)
}

// readPump 讀取客戶端傳來的事件，驗證後交給 Hub 轉發
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Client disconnected gracefully.")
			} else {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(p, &event); err != nil {
			// 解不開的信封直接丟棄，不回覆任何錯誤給發送端
			log.Printf("Dropping undecodable frame from %s: %v", c.SessionID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent 依事件名稱分派；封閉集合以外的事件一律丟棄
func (c *Client) handleEvent(event Event) {
	switch event.Event {
	case EventJoinRoom:
		var payload JoinRoomPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.RoomID == "" {
			log.Printf("Dropping join_room with missing roomId from %s", c.SessionID)
			return
		}
		c.hub.join <- joinRequest{client: c, roomID: payload.RoomID}

	case EventSendMessage:
		var payload MessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.RoomID == "" {
			log.Printf("Dropping send_message with invalid payload from %s", c.SessionID)
			return
		}
		c.relay(EventReceiveMessage, payload.RoomID, event.Data)

	case EventUpdateSessionStatus:
		var payload StatusPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.RoomID == "" {
			log.Printf("Dropping update_session_status with invalid payload from %s", c.SessionID)
			return
		}
		c.relay(EventSessionStatusUpdated, payload.RoomID, event.Data)

	default:
		log.Printf("Dropping unknown event %q from %s", event.Event, c.SessionID)
	}
}

// relay 將原始 payload 包上出站事件名稱後交給 Hub 廣播
func (c *Client) relay(outEvent, roomID string, data json.RawMessage) {
	frame, err := encodeEvent(outEvent, data)
	if err != nil {
		log.Printf("Error encoding %s event: %v", outEvent, err)
		return
	}
	c.hub.broadcast <- broadcastRequest{roomID: roomID, sender: c, frame: frame}
}

// writePump 將 Hub 轉發來的 frame 寫給客戶端，並定期送 ping 保持連線
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// channel 被關閉（ok == false），送出 CloseMessage
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS 回傳處理 WebSocket 連線請求的 http.HandlerFunc
func ServeWS(hub *Hub, allowedOrigin string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// 非瀏覽器客戶端不帶 Origin
			return origin == "" || origin == allowedOrigin
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &Client{
			hub:       hub,
			conn:      conn,
			send:      make(chan []byte, 256),
			SessionID: uuid.NewString(),
			UserID:    r.URL.Query().Get("userId"),
		}
		client.hub.register <- client

		// 線上狀態是輔助功能，userId 沒帶就跳過
		if client.UserID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			database.MarkOnline(ctx, client.UserID)
			cancel()
		}

		go client.writePump()
		client.readPump() // readPump 會在連線關閉時自動取消註冊

		if client.UserID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			database.MarkOffline(ctx, client.UserID)
			cancel()
		}
	}
}
