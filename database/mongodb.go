package database

import (
	"context"
	"log"
	"strings"
	"time"

	"skillswap/backend/models" // 引入 models 套件

	"go.mongodb.org/mongo-driver/bson" // 引入 bson 套件
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoClient *mongo.Client
var dbName string // 儲存資料庫名稱

const (
	// 伺服器選擇最多等 5 秒，連不上就讓程式直接失敗，不要帶病啟動
	serverSelectionTimeout = 5 * time.Second
	// 閒置 socket 45 秒後關閉
	socketTimeout = 45 * time.Second
)

// ConnectMongoDB 建立並初始化 MongoDB 連線；任何失敗都會直接結束程式
func ConnectMongoDB(uri, name string) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), serverSelectionTimeout+time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}

	log.Printf("MongoDB Connected: %s", strings.Join(clientOptions.Hosts, ","))
	MongoClient = client
	dbName = name

	ensureIndexes(ctx)
}

// ensureIndexes 建立應用程式需要的索引
func ensureIndexes(ctx context.Context) {
	// 使用者 Email 唯一索引
	usersCollection := MongoClient.Database(dbName).Collection("users")
	_, err := usersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("Failed to create unique index for users collection: %v", err)
	}

	// 訊息依時間排序的索引，並自動清理超過 30 天的舊訊息
	messagesCollection := MongoClient.Database(dbName).Collection("messages")
	_, err = messagesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}}, // value:1 代表升序(由舊到新)
		Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600),
	})
	if err != nil {
		log.Fatalf("Failed to create TTL index for messages collection: %v", err)
	}
}

// GetCollection 獲取指定資料庫的集合
func GetCollection(collectionName string) *mongo.Collection {
	if MongoClient == nil {
		log.Fatal("MongoDB client is not initialized. Call ConnectMongoDB first.")
	}
	if dbName == "" { // 額外防護，確保 dbName 已初始化
		log.Fatal("Database name is not set. Call ConnectMongoDB with a valid dbName.")
	}
	return MongoClient.Database(dbName).Collection(collectionName)
}

// InsertMessage 將新的對話訊息插入到 MongoDB
func InsertMessage(message models.Message) (*mongo.InsertOneResult, error) {
	collection := GetCollection("messages")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 確保新訊息的 IsRead 預設為 false
	message.IsRead = false

	result, err := collection.InsertOne(ctx, message)
	if err != nil {
		log.Printf("Error inserting message: %v", err)
		return nil, err
	}
	return result, nil
}

// GetRoomMessages 獲取指定對話房間的歷史訊息（最多 50 則，由舊到新）
func GetRoomMessages(roomID string) ([]models.Message, error) {
	collection := GetCollection("messages")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"roomId": roomID}
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(50)

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("Error finding messages for room %s: %v", roomID, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		log.Printf("Error decoding messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// DisconnectMongoDB 關閉 MongoDB 連線
func DisconnectMongoDB() {
	if MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	} else {
		log.Println("Disconnected from MongoDB.")
	}
}
