package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterRequest 結構體用於處理註冊請求
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest 結構體用於處理登入請求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrorResponse 結構體用於返回 JSON 格式的錯誤訊息
type ErrorResponse struct {
	Message string `json:"message"`
}

// User 結構體定義了使用者資料的欄位
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"` // MongoDB 的唯一 ID
	Email    string             `bson:"email" json:"email"`                // 使用者 Email
	Name     string             `bson:"name" json:"name"`                  // 顯示名稱
	Password string             `bson:"password,omitempty" json:"-"`       // 儲存哈希後的密碼，JSON 輸出時忽略
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"` // /uploads 下的檔案路徑或外部 URL
	Provider string             `bson:"provider,omitempty" json:"-"`              // "local" 或 "google"
}

// 註：`Password` 欄位在儲存到資料庫前會被哈希，`json:"-"` 表示在 JSON 序列化時忽略此欄位，避免將密碼暴露出去。
// Google 登入的使用者沒有本地密碼，Provider 會標記為 "google"。
