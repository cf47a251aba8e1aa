package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// 仓储依赖收敛成小接口，便于用内存假实现做单元测试
type quizReader interface {
	FindByID(id uint) (*model.Quiz, error)
}

type questionReader interface {
	ListByQuiz(quizID uint) ([]model.Question, error)
}

type attemptStore interface {
	CreateWithAnswers(attempt *model.Attempt, answers []model.AnswerRecord) error
	ListByUser(userID uint) ([]repository.AttemptWithQuiz, error)
}

type AttemptService struct {
	QuizRepo     quizReader
	QuestionRepo questionReader
	AttemptRepo  attemptStore
}

func NewAttemptService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, attemptRepo *repository.AttemptRepository) *AttemptService {
	return &AttemptService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
	}
}

// SubmitResult 返回给学生的评分结果
type SubmitResult struct {
	AttemptID    string         `json:"attemptId"`
	Score        float64        `json:"score"`
	Passed       bool           `json:"passed"`
	PassingScore int            `json:"passingScore"`
	Answers      []AnswerResult `json:"answers"`
}

// Submit 提交整卷：按提交时刻的实时题目集评分，评分结果与作答明细
// 在一个事务里落库。漏答整卷拒绝，不产生任何记录。
func (s *AttemptService) Submit(userID, quizID uint, answers map[uint]string) (*SubmitResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	result, err := Grade(questions, answers, quiz.PassingScore)
	if err != nil {
		if errors.Is(err, util.ErrAttemptIncomplete) {
			monitoring.AttemptsRejected.Inc()
		}
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       result.Score,
		Passed:      result.Passed,
		AttemptedAt: time.Now(),
	}

	records := make([]model.AnswerRecord, 0, len(result.Answers))
	for _, a := range result.Answers {
		records = append(records, model.AnswerRecord{
			QuestionID:     a.QuestionID,
			SelectedAnswer: a.SelectedAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}

	if err := s.AttemptRepo.CreateWithAnswers(attempt, records); err != nil {
		return nil, err
	}

	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	monitoring.AttemptsGraded.WithLabelValues(outcome).Inc()

	return &SubmitResult{
		AttemptID:    attempt.ID,
		Score:        result.Score,
		Passed:       result.Passed,
		PassingScore: quiz.PassingScore,
		Answers:      result.Answers,
	}, nil
}

func (s *AttemptService) History(userID uint) ([]repository.AttemptWithQuiz, error) {
	return s.AttemptRepo.ListByUser(userID)
}
