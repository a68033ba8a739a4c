package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap/backend/config"
	"skillswap/backend/middleware"
	"skillswap/backend/models"
	"skillswap/backend/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 這裡只測試不會碰到資料庫的驗證路徑；需要資料庫的路徑由 database 套件的整合測試涵蓋

func init() {
	Init(&config.Config{JWTSecret: "test-secret"})
}

// doRequest 讓請求經過 Handle 包裝，驗證錯誤轉換成統一的 JSON 回應
func doRequest(h middleware.AppHandler, req *http.Request) (*httptest.ResponseRecorder, models.ErrorResponse) {
	rec := httptest.NewRecorder()
	middleware.Handle(h).ServeHTTP(rec, req)

	var errResp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
	return rec, errResp
}

// withUser 在請求的 context 中放入已登入的使用者 ID
func withUser(req *http.Request, userID primitive.ObjectID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), utils.UserIDKey, userID))
}

func TestRegisterUserInvalidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString("not json"))

	rec, errResp := doRequest(RegisterUser, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request payload", errResp.Message)
}

func TestRegisterUserMissingFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(`{"email":"a@b.c"}`))

	rec, errResp := doRequest(RegisterUser, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email, name, and password are required", errResp.Message)
}

func TestCreateSkillUnauthorized(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/skills", bytes.NewBufferString(`{"title":"Guitar"}`))

	// context 中沒有使用者 ID 應該回 401
	rec, errResp := doRequest(CreateSkill, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", errResp.Message)
}

func TestCreateSkillMissingTitle(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/skills", bytes.NewBufferString(`{"description":"no title"}`))
	req = withUser(req, primitive.NewObjectID())

	rec, errResp := doRequest(CreateSkill, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and description are required", errResp.Message)
}

func TestGetSkillInvalidID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/skills/not-an-id", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-an-id"})

	rec, errResp := doRequest(GetSkill, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", errResp.Message)
}

func TestUpdateSessionStatusInvalidStatus(t *testing.T) {
	sessionID := primitive.NewObjectID()
	req := httptest.NewRequest("PUT", "/api/sessions/"+sessionID.Hex()+"/status",
		bytes.NewBufferString(`{"status":"teleported"}`))
	req = mux.SetURLVars(req, map[string]string{"id": sessionID.Hex()})
	req = withUser(req, primitive.NewObjectID())

	rec, errResp := doRequest(UpdateSessionStatus, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid session status", errResp.Message)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/reviews",
		bytes.NewBufferString(`{"sessionId":"x","rating":9}`))
	req = withUser(req, primitive.NewObjectID())

	rec, errResp := doRequest(CreateReview, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Rating must be between 1 and 5", errResp.Message)
}

func TestCreateMessageMissingContent(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/messages",
		bytes.NewBufferString(`{"roomId":"r1"}`))
	req = withUser(req, primitive.NewObjectID())

	rec, errResp := doRequest(CreateMessage, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Room ID and content are required", errResp.Message)
}
