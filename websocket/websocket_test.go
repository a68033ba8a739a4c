package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// newTestClient 建立一個不綁實際連線的客戶端，直接對 Hub 做註冊
func newTestClient(hub *Hub, id string) *Client {
	c := &Client{hub: hub, send: make(chan []byte, 16), SessionID: id}
	hub.register <- c
	return c
}

// joinRoom 模擬客戶端送出 join_room 事件
func joinRoom(c *Client, roomID string) {
	c.handleEvent(Event{Event: EventJoinRoom, Data: json.RawMessage(`{"roomId":"` + roomID + `"}`)})
}

// recvFrame 在時限內從客戶端的發送通道取出一個 frame
func recvFrame(c *Client, timeout time.Duration) ([]byte, bool) {
	select {
	case frame := <-c.send:
		return frame, true
	case <-time.After(timeout):
		return nil, false
	}
}

func TestBroadcastToRoomMembers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub, "a")
	b := newTestClient(hub, "b")
	c := newTestClient(hub, "c")

	// A 和 B 加入 r1，C 加入 r2
	joinRoom(a, "r1")
	joinRoom(b, "r1")
	joinRoom(c, "r2")

	// A 在 r1 發送訊息
	a.handleEvent(Event{
		Event: EventSendMessage,
		Data:  json.RawMessage(`{"roomId":"r1","senderName":"A","content":"hello"}`),
	})

	// B 應該收到 receive_message，內容原封不動
	frame, ok := recvFrame(b, time.Second)
	assert.True(t, ok, "同房間的成員應該收到訊息")

	var event Event
	assert.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, EventReceiveMessage, event.Event)

	var payload MessagePayload
	assert.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "r1", payload.RoomID)
	assert.Equal(t, "hello", payload.Content)

	// B 只會收到一次
	_, ok = recvFrame(b, 100*time.Millisecond)
	assert.False(t, ok, "成員不應該重複收到同一則訊息")

	// 發送者自己不會收到
	_, ok = recvFrame(a, 100*time.Millisecond)
	assert.False(t, ok, "發送者不應該收到自己的訊息")

	// 只加入 r2 的 C 不會收到 r1 的訊息
	_, ok = recvFrame(c, 100*time.Millisecond)
	assert.False(t, ok, "其他房間的成員不應該收到訊息")
}

func TestLateJoinerGetsNothing(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub, "a")
	b := newTestClient(hub, "b")
	joinRoom(a, "r1")
	joinRoom(b, "r1")

	a.handleEvent(Event{
		Event: EventSendMessage,
		Data:  json.RawMessage(`{"roomId":"r1","content":"early"}`),
	})

	// 等 B 收到後才加入的 D，不會回溯收到先前的訊息
	_, ok := recvFrame(b, time.Second)
	assert.True(t, ok)

	d := newTestClient(hub, "d")
	joinRoom(d, "r1")

	_, ok = recvFrame(d, 100*time.Millisecond)
	assert.False(t, ok, "加入前發送的訊息不應該回溯遞送")
}

func TestStatusUpdateRelay(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub, "a")
	b := newTestClient(hub, "b")
	joinRoom(a, "s1")
	joinRoom(b, "s1")

	a.handleEvent(Event{
		Event: EventUpdateSessionStatus,
		Data:  json.RawMessage(`{"roomId":"s1","sessionId":"x","status":"accepted"}`),
	})

	frame, ok := recvFrame(b, time.Second)
	assert.True(t, ok)

	var event Event
	assert.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, EventSessionStatusUpdated, event.Event, "狀態更新應該以 session_status_updated 轉發")

	var payload StatusPayload
	assert.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "accepted", payload.Status)
}

func TestMalformedEventsAreDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub, "a")
	b := newTestClient(hub, "b")
	joinRoom(a, "r1")
	joinRoom(b, "r1")

	// 封閉集合以外的事件
	a.handleEvent(Event{Event: "hijack_room", Data: json.RawMessage(`{"roomId":"r1"}`)})
	// 缺 roomId 的訊息
	a.handleEvent(Event{Event: EventSendMessage, Data: json.RawMessage(`{"content":"lost"}`)})
	// data 不是物件
	a.handleEvent(Event{Event: EventSendMessage, Data: json.RawMessage(`42`)})

	_, ok := recvFrame(b, 200*time.Millisecond)
	assert.False(t, ok, "不合法的事件不應該被轉發")
}

func TestMultipleRoomsPerClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub, "a")
	b := newTestClient(hub, "b")

	// 一條連線可以同時加入多個房間
	joinRoom(a, "r1")
	joinRoom(a, "r2")
	joinRoom(b, "r2")

	b.handleEvent(Event{
		Event: EventSendMessage,
		Data:  json.RawMessage(`{"roomId":"r2","content":"hi"}`),
	})

	_, ok := recvFrame(a, time.Second)
	assert.True(t, ok, "加入多個房間的連線應該收到每個房間的訊息")
}

func TestRelayOverWire(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(ServeWS(hub, "http://localhost:5173"))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func() *gws.Conn {
		conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
		assert.NoError(t, err, "建立 WebSocket 連線不應該失敗")
		return conn
	}

	connA := dial()
	defer connA.Close()
	connB := dial()
	defer connB.Close()
	connC := dial()
	defer connC.Close()

	// A、B 加入 r1，C 加入 r2
	assert.NoError(t, connA.WriteJSON(Event{Event: EventJoinRoom, Data: json.RawMessage(`{"roomId":"r1"}`)}))
	assert.NoError(t, connB.WriteJSON(Event{Event: EventJoinRoom, Data: json.RawMessage(`{"roomId":"r1"}`)}))
	assert.NoError(t, connC.WriteJSON(Event{Event: EventJoinRoom, Data: json.RawMessage(`{"roomId":"r2"}`)}))

	// 等 join 事件被處理完
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, connA.WriteJSON(Event{
		Event: EventSendMessage,
		Data:  json.RawMessage(`{"roomId":"r1","senderName":"A","content":"hello"}`),
	}))

	// B 收到 receive_message
	connB.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	assert.NoError(t, connB.ReadJSON(&event))
	assert.Equal(t, EventReceiveMessage, event.Event)

	// C 在時限內不應該收到任何訊息
	connC.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray Event
	err := connC.ReadJSON(&stray)
	assert.Error(t, err, "其他房間的連線不應該收到訊息")
}
