package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus 定義教學媒合的狀態
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"   // 等待教學者回覆
	SessionStatusAccepted  SessionStatus = "accepted"  // 已接受
	SessionStatusCompleted SessionStatus = "completed" // 已完成
	SessionStatusCancelled SessionStatus = "cancelled" // 已取消
)

// ValidSessionStatus 檢查狀態是否屬於已定義的集合
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionStatusPending, SessionStatusAccepted, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// Session 代表一次技能交換的教學媒合
type Session struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SkillID     primitive.ObjectID `bson:"skillId" json:"skillId"`
	TeacherID   primitive.ObjectID `bson:"teacherId" json:"teacherId"` // 技能發布者
	LearnerID   primitive.ObjectID `bson:"learnerId" json:"learnerId"` // 提出請求的學習者
	Status      SessionStatus      `bson:"status" json:"status"`
	ScheduledAt time.Time          `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
