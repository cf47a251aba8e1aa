package model

import "encoding/json"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

// TrueFalseAnswers true_false 题没有显式选项，答案只能是这两个值
var TrueFalseAnswers = []string{"True", "False"}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType    `gorm:"size:20;default:'multiple_choice'" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // multiple_choice: []string；true_false 为 NULL
	CorrectAnswer string          `gorm:"size:255;not null" json:"correctAnswer,omitempty"`
	Points        int             `gorm:"default:1" json:"points"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
