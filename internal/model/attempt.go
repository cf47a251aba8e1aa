package model

import "time"

// Attempt 一次已评分的答卷，创建后不再修改
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	QuizID      uint      `gorm:"index;type:bigint unsigned" json:"quizId"`
	Score       float64   `gorm:"not null" json:"score"` // 百分比得分
	Passed      bool      `gorm:"default:false" json:"passed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}
