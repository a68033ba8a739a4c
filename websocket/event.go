package websocket

import (
	"encoding/json"
	"time"
)

// 事件名稱即 wire contract，與前端約定好的封閉集合
const (
	EventJoinRoom             = "join_room"
	EventSendMessage          = "send_message"
	EventReceiveMessage       = "receive_message"
	EventUpdateSessionStatus  = "update_session_status"
	EventSessionStatusUpdated = "session_status_updated"
)

// Event 是 WebSocket 上所有訊息的外層信封。
// Data 先保留原始 bytes，驗證通過後原封不動轉發，不認識的事件直接丟棄。
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinRoomPayload 是 join_room 事件的內容
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// MessagePayload 是 send_message / receive_message 事件的內容
type MessagePayload struct {
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
}

// StatusPayload 是 update_session_status / session_status_updated 事件的內容
type StatusPayload struct {
	RoomID    string `json:"roomId"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
}

// encodeEvent 將事件信封編碼成要送出的 frame
func encodeEvent(name string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(Event{Event: name, Data: data})
}
