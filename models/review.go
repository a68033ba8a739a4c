package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review 代表一則針對教學者的評價
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ReviewerID primitive.ObjectID `bson:"reviewerId" json:"reviewerId"` // 撰寫者
	RevieweeID primitive.ObjectID `bson:"revieweeId" json:"revieweeId"` // 被評價的教學者
	Rating     int                `bson:"rating" json:"rating"`         // 1 到 5
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
