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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllUsers 處理獲取所有使用者列表的請求
func GetAllUsers(w http.ResponseWriter, r *http.Request) error {
	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := usersCollection.Find(ctx, bson.M{}) // bson.M{} 表示無條件查找所有文檔
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return err
	}

	// Password 欄位因 `json:"-"` 不會被序列化，這裡再清空一次作為額外防護
	for i := range users {
		users[i].Password = ""
	}

	return writeJSON(w, http.StatusOK, users)
}

// GetUser 處理獲取單一使用者的請求
func GetUser(w http.ResponseWriter, r *http.Request) error {
	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return writeJSON(w, http.StatusOK, user)
}

// UpdateUserRequest 定義更新個人資料的請求體
type UpdateUserRequest struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// UpdateUser 處理更新使用者資料的請求，只允許本人修改
func UpdateUser(w http.ResponseWriter, r *http.Request) error {
	targetID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if callerID != targetID {
		return middleware.NewHTTPError(http.StatusForbidden, "Cannot modify another user's profile")
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Name == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": req.Name, "bio": req.Bio, "avatar": req.Avatar}}
	result := usersCollection.FindOneAndUpdate(ctx, bson.M{"_id": targetID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.User
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return writeJSON(w, http.StatusOK, updated)
}

// DeleteUser 處理刪除帳號的請求，只允許本人刪除
func DeleteUser(w http.ResponseWriter, r *http.Request) error {
	targetID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if callerID != targetID {
		return middleware.NewHTTPError(http.StatusForbidden, "Cannot delete another user's account")
	}

	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := usersCollection.DeleteOne(ctx, bson.M{"_id": targetID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return middleware.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetOnlineUsers 回傳目前透過 WebSocket 在線的使用者 ID 列表
func GetOnlineUsers(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	online, err := database.OnlineUsers(ctx)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string][]string{"online": online})
}
