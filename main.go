package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skillswap/backend/config"
	"skillswap/backend/database"
	"skillswap/backend/handlers"
	"skillswap/backend/middleware"
	"skillswap/backend/websocket"

	"github.com/gorilla/mux"
	"github.com/rs/cors" // 引入 CORS 庫
)

func main() {
	cfg := config.LoadConfig()

	// 先連上資料庫，連不上就直接失敗，不提供服務
	database.ConnectMongoDB(cfg.MongoDBURI, cfg.DBName)
	defer database.DisconnectMongoDB()

	// Redis 供線上狀態使用，連線失敗只會降級不會中止
	database.ConnectRedis(cfg.RedisAddr)
	defer database.DisconnectRedis()

	handlers.Init(cfg)

	// 確保上傳目錄存在
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// 啟動即時轉發的 Hub
	hub := websocket.NewHub()
	go hub.Run()

	router := mux.NewRouter()
	registerRoutes(router, cfg, hub)

	// 設置 CORS 中介軟體，只允許設定的前端來源
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(middleware.Recover(router))

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running in %s mode on port %s", cfg.Env, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// 如果錯誤不是因為主動關閉伺服器，就記錄錯誤並結束程式
			log.Fatalf("Could not listen on %s: %v", serverAddr, err)
		}
	}()

	// 當按下 Ctrl+C，程式會收到 SIGINT
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %s, shutting down server...", sig)

	// 最多等 30 秒關閉，避免請求中斷
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hub.Stop()

	log.Println("Server exited gracefully.")
}

// registerRoutes 掛載所有 HTTP 與 WebSocket 路由
func registerRoutes(router *mux.Router, cfg *config.Config, hub *websocket.Hub) {
	jwtAuth := middleware.JWTMiddleware(cfg.JWTSecret)

	// 健康檢查路由
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "SkillSwap API is running...")
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// 認證
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", middleware.Handle(handlers.RegisterUser)).Methods("POST")
	auth.HandleFunc("/login", middleware.Handle(handlers.LoginUser)).Methods("POST")
	auth.HandleFunc("/google", middleware.Handle(handlers.GoogleLogin)).Methods("GET")
	auth.HandleFunc("/google/callback", middleware.Handle(handlers.GoogleCallback)).Methods("GET")
	auth.Handle("/me", jwtAuth(middleware.Handle(handlers.GetMe))).Methods("GET")

	// 使用者
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", middleware.Handle(handlers.GetAllUsers)).Methods("GET")
	users.HandleFunc("/online", middleware.Handle(handlers.GetOnlineUsers)).Methods("GET")
	users.HandleFunc("/{id}", middleware.Handle(handlers.GetUser)).Methods("GET")
	users.Handle("/{id}", jwtAuth(middleware.Handle(handlers.UpdateUser))).Methods("PUT")
	users.Handle("/{id}", jwtAuth(middleware.Handle(handlers.DeleteUser))).Methods("DELETE")

	// 技能貼文
	skills := api.PathPrefix("/skills").Subrouter()
	skills.Handle("", jwtAuth(middleware.Handle(handlers.CreateSkill))).Methods("POST")
	skills.HandleFunc("", middleware.Handle(handlers.GetSkills)).Methods("GET")
	skills.HandleFunc("/{id}", middleware.Handle(handlers.GetSkill)).Methods("GET")
	skills.Handle("/{id}", jwtAuth(middleware.Handle(handlers.UpdateSkill))).Methods("PUT")
	skills.Handle("/{id}", jwtAuth(middleware.Handle(handlers.DeleteSkill))).Methods("DELETE")

	// 教學媒合
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Handle("", jwtAuth(middleware.Handle(handlers.CreateSession))).Methods("POST")
	sessions.Handle("", jwtAuth(middleware.Handle(handlers.GetMySessions))).Methods("GET")
	sessions.Handle("/{id}", jwtAuth(middleware.Handle(handlers.GetSession))).Methods("GET")
	sessions.Handle("/{id}/status", jwtAuth(middleware.Handle(handlers.UpdateSessionStatus))).Methods("PUT")
	sessions.Handle("/{id}", jwtAuth(middleware.Handle(handlers.DeleteSession))).Methods("DELETE")

	// 評價
	reviews := api.PathPrefix("/reviews").Subrouter()
	reviews.Handle("", jwtAuth(middleware.Handle(handlers.CreateReview))).Methods("POST")
	reviews.HandleFunc("/user/{id}", middleware.Handle(handlers.GetUserReviews)).Methods("GET")
	reviews.Handle("/{id}", jwtAuth(middleware.Handle(handlers.DeleteReview))).Methods("DELETE")

	// 對話訊息
	messages := api.PathPrefix("/messages").Subrouter()
	messages.Handle("", jwtAuth(middleware.Handle(handlers.CreateMessage))).Methods("POST")
	messages.Handle("/room/{roomId}", jwtAuth(middleware.Handle(handlers.GetRoomMessages))).Methods("GET")

	// WebSocket 即時轉發
	router.HandleFunc("/ws", websocket.ServeWS(hub, cfg.FrontendURL))

	// 上傳檔案
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// production 模式下，其餘路徑一律交給打包好的前端（SPA fallback）
	if cfg.IsProduction() {
		router.PathPrefix("/").Handler(spaHandler{staticDir: cfg.StaticDir})
	}
}

// spaHandler 提供前端打包後的靜態檔案，找不到的路徑回傳 index.html 交給前端路由
type spaHandler struct {
	staticDir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticDir, filepath.Clean(r.URL.Path))

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}
