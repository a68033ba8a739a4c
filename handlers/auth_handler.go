package handlers

import (
	"context"
	"net/http"
	"time"

	"skillswap/backend/database"
	"skillswap/backend/middleware"
	"skillswap/backend/models"
	"skillswap/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt" // 用於密碼哈希
)

// RegisterUser 處理使用者註冊請求
func RegisterUser(w http.ResponseWriter, r *http.Request) error {
	var registerReq models.RegisterRequest
	if err := decodeJSON(r, &registerReq); err != nil {
		return err
	}

	// 基本的輸入驗證
	if registerReq.Email == "" || registerReq.Name == "" || registerReq.Password == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Email, name, and password are required")
	}

	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 先檢查 Email，如果存在則直接返回
	var existingUser models.User
	err := usersCollection.FindOne(ctx, bson.M{"email": registerReq.Email}).Decode(&existingUser)
	if err == nil {
		return middleware.NewHTTPError(http.StatusConflict, "Email already registered")
	}
	if err != mongo.ErrNoDocuments { // 如果不是找不到文件，而是其他錯誤
		return err
	}

	// 哈希密碼
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// 創建新使用者
	user := models.User{
		Email:    registerReq.Email,
		Name:     registerReq.Name,
		Password: string(hashedPassword),
		Provider: "local",
	}

	result, err := usersCollection.InsertOne(ctx, user)
	if err != nil {
		// Email 唯一索引可能在並發註冊時攔下重複
		if mongo.IsDuplicateKeyError(err) {
			return middleware.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"id":      result.InsertedID.(primitive.ObjectID).Hex(),
	})
}

// LoginUser 處理使用者登入請求，成功時回傳 JWT
func LoginUser(w http.ResponseWriter, r *http.Request) error {
	var credentials models.LoginRequest
	if err := decodeJSON(r, &credentials); err != nil {
		return err
	}

	if credentials.Email == "" || credentials.Password == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 透過 Email 尋找使用者
	var user models.User
	err := usersCollection.FindOne(ctx, bson.M{"email": credentials.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	// Google 登入的帳號沒有本地密碼
	if user.Password == "" {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	// 比較哈希後的密碼
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Name, cfg.JWTSecret)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
		"id":      user.ID.Hex(), // 將 ObjectID 轉換為 Hex 字串
		"name":    user.Name,
	})
}

// GetMe 回傳目前登入的使用者
func GetMe(w http.ResponseWriter, r *http.Request) error {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
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
