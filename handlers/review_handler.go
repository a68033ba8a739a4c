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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateReviewRequest 定義建立評價的請求體
type CreateReviewRequest struct {
	SessionID string `json:"sessionId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview 處理對已完成媒合留下評價的請求
func CreateReview(w http.ResponseWriter, r *http.Request) error {
	reviewerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return middleware.NewHTTPError(http.StatusBadRequest, "Rating must be between 1 and 5")
	}
	sessionID, err := parseObjectID(req.SessionID)
	if err != nil {
		return err
	}

	// 評價者必須是媒合的參與者，被評價者是另一方
	session, err := findSessionForParticipant(sessionID, reviewerID)
	if err != nil {
		return err
	}
	revieweeID := session.TeacherID
	if reviewerID == session.TeacherID {
		revieweeID = session.LearnerID
	}

	review := models.Review{
		SessionID:  sessionID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.GetCollection("reviews").InsertOne(ctx, review)
	if err != nil {
		return err
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	return writeJSON(w, http.StatusCreated, review)
}

// GetUserReviews 回傳某使用者收到的所有評價
func GetUserReviews(w http.ResponseWriter, r *http.Request) error {
	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.GetCollection("reviews").Find(ctx, bson.M{"revieweeId": userID}, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err = cursor.All(ctx, &reviews); err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, reviews)
}

// DeleteReview 處理刪除評價的請求，只允許撰寫者刪除
func DeleteReview(w http.ResponseWriter, r *http.Request) error {
	reviewID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.GetCollection("reviews").DeleteOne(ctx,
		bson.M{"_id": reviewID, "reviewerId": callerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return middleware.NewHTTPError(http.StatusNotFound, "Review not found or not written by you")
	}

	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
