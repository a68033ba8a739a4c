package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"skillswap/backend/config"
	"skillswap/backend/database"
	"skillswap/backend/middleware"
	"skillswap/backend/models"
	"skillswap/backend/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// googleOAuthConfig 在 Init 時建立；未設定 client ID 時 Google 登入路由會回 503
var googleOAuthConfig *oauth2.Config

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// oauthStateCookie 用來防止 callback 被偽造的 state cookie 名稱
const oauthStateCookie = "oauth_state"

func initGoogleOAuth(c *config.Config) {
	if c.GoogleClientID == "" {
		return
	}
	googleOAuthConfig = &oauth2.Config{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin 將使用者導向 Google 授權頁面
func GoogleLogin(w http.ResponseWriter, r *http.Request) error {
	if googleOAuthConfig == nil {
		return middleware.NewHTTPError(http.StatusServiceUnavailable, "Google login is not configured")
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})

	http.Redirect(w, r, googleOAuthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
	return nil
}

// googleUserInfo 是 Google userinfo API 的回應欄位
type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback 處理 Google 授權完成後的回呼:
// 驗證 state、交換 token、讀取使用者資料，必要時建立帳號，最後帶著 JWT 導回前端
func GoogleCallback(w http.ResponseWriter, r *http.Request) error {
	if googleOAuthConfig == nil {
		return middleware.NewHTTPError(http.StatusServiceUnavailable, "Google login is not configured")
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		return middleware.NewHTTPError(http.StatusBadRequest, "Invalid OAuth state")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Authorization code is required")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("Google token exchange failed: %v", err)
		return middleware.NewHTTPError(http.StatusUnauthorized, "Failed to exchange authorization code")
	}

	resp, err := googleOAuthConfig.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return err
	}
	if info.Email == "" {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Google account has no email")
	}

	user, err := findOrCreateGoogleUser(info)
	if err != nil {
		return err
	}

	jwtToken, err := utils.GenerateJWT(user.ID, user.Name, cfg.JWTSecret)
	if err != nil {
		return err
	}

	// 帶著 token 導回前端，由前端存入自己的儲存空間
	http.Redirect(w, r, cfg.FrontendURL+"/auth/callback?token="+jwtToken, http.StatusTemporaryRedirect)
	return nil
}

// findOrCreateGoogleUser 依 Email 查找使用者，不存在時建立 Google 帳號
func findOrCreateGoogleUser(info googleUserInfo) (*models.User, error) {
	usersCollection := database.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := usersCollection.FindOne(ctx, bson.M{"email": info.Email}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	user = models.User{
		Email:    info.Email,
		Name:     info.Name,
		Avatar:   info.Picture,
		Provider: "google",
	}
	result, err := usersCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	log.Printf("Created user %s via Google login", user.ID.Hex())
	return &user, nil
}
