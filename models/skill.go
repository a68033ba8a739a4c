package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Skill 代表一則技能貼文（某使用者願意教授的技能）
type Skill struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"` // 發布者
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tags        string             `bson:"tags" json:"tags"` // 逗號分隔的標籤字串，與前端表單格式一致
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MatchesSearch 判斷技能貼文的標題或任一標籤是否包含搜尋詞（不分大小寫）
func (s *Skill) MatchesSearch(term string) bool {
	return matchTitleOrTags(s.Title, s.Tags, term)
}
