package repository

import (
	"quizhub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithAnswers 同一事务写入答卷与全部作答记录，失败整体回滚，
// 不允许出现只有分数没有作答明细的半成品记录
func (r *AttemptRepository) CreateWithAnswers(attempt *model.Attempt, answers []model.AnswerRecord) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AttemptRepository) ListAnswers(attemptID string) ([]model.AnswerRecord, error) {
	var records []model.AnswerRecord
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&records).Error
	return records, err
}

// AttemptWithQuiz 学生答卷历史行（带测验标题）
type AttemptWithQuiz struct {
	ID          string    `json:"id"`
	QuizID      uint      `json:"quizId"`
	QuizTitle   string    `json:"quizTitle"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func (r *AttemptRepository) ListByUser(userID uint) ([]AttemptWithQuiz, error) {
	var rows []AttemptWithQuiz
	err := r.DB.Table("quiz_attempts a").
		Select("a.id, a.quiz_id, q.title as quiz_title, a.score, a.passed, a.attempted_at").
		Joins("JOIN quizzes q ON a.quiz_id = q.id").
		Where("a.user_id = ? AND a.deleted_at IS NULL AND q.deleted_at IS NULL", userID).
		Order("a.attempted_at desc").
		Scan(&rows).Error
	return rows, err
}

// AttemptWithUser 管理员视图/导出行（带学生信息）
type AttemptWithUser struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func (r *AttemptRepository) ListByQuiz(quizID uint) ([]AttemptWithUser, error) {
	var rows []AttemptWithUser
	err := r.DB.Table("quiz_attempts a").
		Select("a.id, u.username, u.email, a.score, a.passed, a.attempted_at").
		Joins("JOIN users u ON a.user_id = u.id").
		Where("a.quiz_id = ? AND a.deleted_at IS NULL AND u.deleted_at IS NULL", quizID).
		Order("a.attempted_at desc").
		Scan(&rows).Error
	return rows, err
}
