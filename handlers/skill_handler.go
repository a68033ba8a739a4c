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

// SkillRequest 定義建立與更新技能貼文的請求體
type SkillRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"` // 逗號分隔
	Image       string `json:"image"`
}

// CreateSkill 處理發布技能貼文的請求
func CreateSkill(w http.ResponseWriter, r *http.Request) error {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Title == "" || req.Description == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Title and description are required")
	}

	now := time.Now()
	skill := models.Skill{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	skillsCollection := database.GetCollection("skills")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := skillsCollection.InsertOne(ctx, skill)
	if err != nil {
		return err
	}
	skill.ID = result.InsertedID.(primitive.ObjectID)

	return writeJSON(w, http.StatusCreated, skill)
}

// GetSkills 處理技能貼文列表的請求，可用 ?search= 以標題或標籤過濾
func GetSkills(w http.ResponseWriter, r *http.Request) error {
	skillsCollection := database.GetCollection("skills")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := skillsCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	skills := []models.Skill{}
	if err = cursor.All(ctx, &skills); err != nil {
		return err
	}

	// 搜尋規則與前端本地搜尋一致:標題或任一標籤包含搜尋詞，不分大小寫
	if term := r.URL.Query().Get("search"); term != "" {
		filtered := []models.Skill{}
		for i := range skills {
			if skills[i].MatchesSearch(term) {
				filtered = append(filtered, skills[i])
			}
		}
		skills = filtered
	}

	return writeJSON(w, http.StatusOK, skills)
}

// GetSkill 處理獲取單一技能貼文的請求
func GetSkill(w http.ResponseWriter, r *http.Request) error {
	skillID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	skillsCollection := database.GetCollection("skills")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var skill models.Skill
	if err := skillsCollection.FindOne(ctx, bson.M{"_id": skillID}).Decode(&skill); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "Skill not found")
		}
		return err
	}

	return writeJSON(w, http.StatusOK, skill)
}

// UpdateSkill 處理更新技能貼文的請求，只允許發布者修改
func UpdateSkill(w http.ResponseWriter, r *http.Request) error {
	skillID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Title == "" || req.Description == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, "Title and description are required")
	}

	skillsCollection := database.GetCollection("skills")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       req.Title,
		"description": req.Description,
		"tags":        req.Tags,
		"image":       req.Image,
		"updatedAt":   time.Now(),
	}}

	// 過濾條件帶上 userId，非發布者的更新不會命中任何文件
	result := skillsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": skillID, "userId": callerID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.Skill
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return middleware.NewHTTPError(http.StatusNotFound, "Skill not found or not owned by you")
		}
		return err
	}

	return writeJSON(w, http.StatusOK, updated)
}

// DeleteSkill 處理刪除技能貼文的請求，只允許發布者刪除
func DeleteSkill(w http.ResponseWriter, r *http.Request) error {
	skillID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		return err
	}

	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		return middleware.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	skillsCollection := database.GetCollection("skills")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := skillsCollection.DeleteOne(ctx, bson.M{"_id": skillID, "userId": callerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return middleware.NewHTTPError(http.StatusNotFound, "Skill not found or not owned by you")
	}

	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
