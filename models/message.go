package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 代表一則私人對話訊息（透過 REST 儲存，透過 WebSocket 即時轉發）
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoomID     string             `bson:"roomId" json:"roomId"` // 對話房間 ID，由前端以雙方使用者 ID 組成
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderName string             `bson:"senderName" json:"senderName"`
	Content    string             `bson:"content" json:"content"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	IsRead     bool               `bson:"isRead" json:"isRead"`
}
