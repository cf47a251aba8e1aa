package model

// AnswerRecord 答卷中单个题目的作答与判定结果，与 Attempt 同一事务写入
// swagger:model AnswerRecord
type AnswerRecord struct {
	UUIDBase
	AttemptID      string `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID     uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	SelectedAnswer string `gorm:"size:255" json:"selectedAnswer"`
	IsCorrect      bool   `gorm:"default:false" json:"isCorrect"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
