package config

import (
	"log"
	"os"

	"github.com/joho/godotenv" // 引入這個庫來讀取 .env 檔案
)

// Config 結構體用於儲存應用程式的配置
type Config struct {
	MongoDBURI         string
	DBName             string
	Port               string
	FrontendURL        string // CORS 與 WebSocket 允許的前端來源
	Env                string // "development" 或 "production"
	JWTSecret          string
	RedisAddr          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UploadDir          string // 上傳檔案的存放目錄
	StaticDir          string // production 模式下前端打包後的靜態檔案目錄
}

// LoadConfig 載入配置，優先從環境變數讀取，其次從 .env 檔案讀取
func LoadConfig() *Config {
	// 嘗試載入 .env 檔案，如果不存在也不會報錯
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		MongoDBURI:         getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "skillswap_db"),
		Port:               getEnv("PORT", "5004"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		Env:                getEnv("APP_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5004/api/auth/google/callback"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:          getEnv("STATIC_DIR", "../frontend/dist"),
	}
	return cfg
}

// IsProduction 回報是否以 production 模式執行
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv 輔助函數，用於從環境變數獲取值，如果不存在則使用預設值
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
