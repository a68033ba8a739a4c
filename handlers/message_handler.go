package handlers

import (
	"context"
	"net/http"
	"time"

	"skillswap/backend/database"
	"skillswap/backend/middleware"
	"skillswap/backend/models"
	"skillswap/backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateMessageRequest 定義儲存對話訊息的請求體
type CreateMessageRequest struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

// CreateMessage 處理儲存對話訊息的請求。
// 即時遞送走 WebSocket，REST 這端負責把訊息寫進歷史記錄。
func CreateMessage(w http.ResponseWriter, r *http.Request) error {
	senderID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.RoomID == "" || req.Content == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Room ID and content are required")
	}

	// 取得發送者名稱，存進訊息方便歷史查詢時直接顯示
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sender models.User
	if err := database.GetCollection("users").FindOne(ctx, bson.M{"_id": senderID}).Decode(&sender); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return err
	}

	message := models.Message{
		RoomID:     req.RoomID,
		SenderID:   senderID,
		SenderName: sender.Name,
		Content:    req.Content,
		Timestamp:  time.Now(),
	}

	result, err := database.InsertMessage(message)
	if err != nil {
		return err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)

	return writeJSON(w, http.StatusCreated, message)
}

// GetRoomMessages 處理獲取對話房間歷史訊息的請求
func GetRoomMessages(w http.ResponseWriter, r *http.Request) error {
	roomID := mux.Vars(r)["roomId"]
	if roomID == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Room ID is required")
	}

	messages, err := database.GetRoomMessages(roomID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return writeJSON(w, http.StatusOK, messages)
}
