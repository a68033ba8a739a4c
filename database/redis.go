package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 供線上狀態使用的 Redis 連線；連不上時保持 nil，線上狀態功能降級為 no-op
var RedisClient *redis.Client

// onlineUsersKey 是儲存目前在線使用者 ID 的 Redis set
const onlineUsersKey = "online_users"

// ConnectRedis 建立 Redis 連線。線上狀態屬於輔助功能，連線失敗只記錄不中止程式
func ConnectRedis(addr string) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, online presence disabled: %v", addr, err)
		return
	}

	log.Printf("Redis Connected: %s", addr)
	RedisClient = client
}

// MarkOnline 將使用者加入在線集合
func MarkOnline(ctx context.Context, userID string) {
	if RedisClient == nil || userID == "" {
		return
	}
	if err := RedisClient.SAdd(ctx, onlineUsersKey, userID).Err(); err != nil {
		log.Printf("Error marking user %s online: %v", userID, err)
	}
}

// MarkOffline 將使用者從在線集合移除
func MarkOffline(ctx context.Context, userID string) {
	if RedisClient == nil || userID == "" {
		return
	}
	if err := RedisClient.SRem(ctx, onlineUsersKey, userID).Err(); err != nil {
		log.Printf("Error marking user %s offline: %v", userID, err)
	}
}

// OnlineUsers 回傳目前在線的使用者 ID 列表
func OnlineUsers(ctx context.Context) ([]string, error) {
	if RedisClient == nil {
		return []string{}, nil
	}
	return RedisClient.SMembers(ctx, onlineUsersKey).Result()
}

// DisconnectRedis 關閉 Redis 連線
func DisconnectRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		log.Printf("Error disconnecting from Redis: %v", err)
	}
}
