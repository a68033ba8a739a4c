package database

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"skillswap/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// TestConnectMongoDBFailFast 驗證連不上資料庫時行程會在時限內以非零狀態碼結束。
// log.Fatalf 會直接結束行程，所以實際的連線動作在子行程中執行。
func TestConnectMongoDBFailFast(t *testing.T) {
	if os.Getenv("MONGO_FAILFAST_CHILD") == "1" {
		// 連向一個不可能有 MongoDB 的位址
		ConnectMongoDB("mongodb://127.0.0.1:1", "skillswap_test")
		return
	}

	if testing.Short() {
		t.Skip("skipping fail-fast test in short mode")
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestConnectMongoDBFailFast")
	cmd.Env = append(os.Environ(), "MONGO_FAILFAST_CHILD=1")

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	exitErr, ok := err.(*exec.ExitError)
	assert.True(t, ok, "子行程應該以非零狀態碼結束")
	if ok {
		assert.NotZero(t, exitErr.ExitCode())
	}
	// 伺服器選擇超時設為 5 秒，加上餘裕應該遠低於 15 秒
	assert.Less(t, elapsed, 15*time.Second, "失敗應該在超時時限內發生")
}

// TestMessageRoundTrip 驗證訊息寫入後讀回的內容等價（需要 Docker）
func TestMessageRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mongodb integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Skipf("could not start mongodb container: %v", err)
	}
	defer ctr.Terminate(ctx)

	uri, err := ctr.ConnectionString(ctx)
	assert.NoError(t, err)

	ConnectMongoDB(uri, "skillswap_test")
	defer DisconnectMongoDB()

	sent := models.Message{
		RoomID:     "r1",
		SenderName: "Alice",
		Content:    "hello there",
		Timestamp:  time.Now(),
	}
	result, err := InsertMessage(sent)
	assert.NoError(t, err, "寫入訊息不應該返回錯誤")
	assert.NotNil(t, result.InsertedID)

	// 寫入其他房間的訊息，驗證查詢不會跨房間
	_, err = InsertMessage(models.Message{RoomID: "r2", SenderName: "Bob", Content: "other room", Timestamp: time.Now()})
	assert.NoError(t, err)

	got, err := GetRoomMessages("r1")
	assert.NoError(t, err)
	assert.Len(t, got, 1, "只應該讀到 r1 的訊息")
	assert.Equal(t, sent.RoomID, got[0].RoomID)
	assert.Equal(t, sent.SenderName, got[0].SenderName)
	assert.Equal(t, sent.Content, got[0].Content)
	assert.WithinDuration(t, sent.Timestamp, got[0].Timestamp, time.Second)
	assert.False(t, got[0].IsRead, "新訊息的已讀狀態應該是 false")
}
