package handlers

import (
	"encoding/json"
	"net/http"

	"skillswap/backend/config"
	"skillswap/backend/middleware"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cfg 保存啟動時注入的配置，供需要 JWT secret 或前端網址的處理器使用
var cfg *config.Config

// Init 注入應用程式配置，必須在掛載路由前呼叫
func Init(c *config.Config) {
	cfg = c
	initGoogleOAuth(c)
}

// decodeJSON 解析請求 body，格式錯誤統一回 400
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return middleware.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return nil
}

// writeJSON 發送 JSON 回應
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// parseObjectID 將路徑參數轉成 ObjectID，格式錯誤統一回 400
func parseObjectID(idStr string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, middleware.NewHTTPError(http.StatusBadRequest, "Invalid ID format")
	}
	return objID, nil
}
