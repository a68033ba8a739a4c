package handlers

import (
	"context"
	"net/http"
	"time"

	"skillswap/backend/database"
	"skillswap/backend/middleware"
	"skillswap/backend/models"
	"skillswap/backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSessionRequest 定義建立教學媒合的請求體
type CreateSessionRequest struct {
	SkillID     string    `json:"skillId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// UpdateSessionStatusRequest 定義更新媒合狀態的請求體
type UpdateSessionStatusRequest struct {
	Status models.SessionStatus `json:"status"`
}

// CreateSession 處理學習者對某技能發出媒合請求
func CreateSession(w http.ResponseWriter, r *http.Request) error {
	learnerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	skillID, err := parseObjectID(req.SkillID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 從技能貼文取得教學者
	var skill models.Skill
	if err := database.GetCollection("skills").FindOne(ctx, bson.M{"_id": skillID}).Decode(&skill); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "Skill not found")
		}
		return err
	}

	if skill.UserID == learnerID {
		return middleware.NewHTTPError(http.StatusBadRequest, "Cannot request a session for your own skill")
	}

	now := time.Now()
	session := models.Session{
		SkillID:     skillID,
		TeacherID:   skill.UserID,
		LearnerID:   learnerID,
		Status:      models.SessionStatusPending,
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := database.GetCollection("sessions").InsertOne(ctx, session)
	if err != nil {
		return err
	}
	session.ID = result.InsertedID.(primitive.ObjectID)

	return writeJSON(w, http.StatusCreated, session)
}

// GetMySessions 回傳呼叫者以教學者或學習者身分參與的所有媒合
func GetMySessions(w http.ResponseWriter, r *http.Request) error {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{{"teacherId": userID}, {"learnerId": userID}}}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := database.GetCollection("sessions").Find(ctx, filter, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, sessions)
}

// GetSession 處理獲取單一媒合的請求，僅限參與者
func GetSession(w http.ResponseWriter, r *http.Request) error {
	sessionID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	session, err := findSessionForParticipant(sessionID, userID)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, session)
}

// UpdateSessionStatus 處理媒合狀態變更（pending/accepted/completed/cancelled），僅限參與者
func UpdateSessionStatus(w http.ResponseWriter, r *http.Request) error {
	sessionID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req UpdateSessionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if !models.ValidSessionStatus(req.Status) {
		return middleware.NewHTTPError(http.StatusBadRequest, "Invalid session status")
	}

	if _, err := findSessionForParticipant(sessionID, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}}
	result := database.GetCollection("sessions").FindOneAndUpdate(ctx,
		bson.M{"_id": sessionID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.Session
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "Session not found")
		}
		return err
	}

	// 即時通知由前端透過 WebSocket 的 update_session_status 事件發出，
	// REST 這端只負責持久化狀態
	return writeJSON(w, http.StatusOK, updated)
}

// DeleteSession 處理刪除媒合的請求，僅限參與者
func DeleteSession(w http.ResponseWriter, r *http.Request) error {
	sessionID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": sessionID, "$or": []bson.M{{"teacherId": userID}, {"learnerId": userID}}}
	result, err := database.GetCollection("sessions").DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return middleware.NewHTTPError(http.StatusNotFound, "Session not found")
	}

	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// findSessionForParticipant 查找媒合並確認呼叫者是參與者之一
func findSessionForParticipant(sessionID, userID primitive.ObjectID) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var session models.Session
	err := database.GetCollection("sessions").FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, middleware.NewHTTPError(http.StatusNotFound, "Session not found")
		}
		return nil, err
	}

	if session.TeacherID != userID && session.LearnerID != userID {
		return nil, middleware.NewHTTPError(http.StatusForbidden, "Not a participant of this session")
	}
	return &session, nil
}
