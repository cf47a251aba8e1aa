package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	CreatedBy    uint   `gorm:"index;type:bigint unsigned" json:"createdBy"`
	PassingScore int    `gorm:"default:60" json:"passingScore"` // 及格线（百分比，含等于）
	TimeLimit    int    `gorm:"default:0" json:"timeLimit"`     // Minutes，0表示不限时
}

func (Quiz) TableName() string {
	return "quizzes"
}
