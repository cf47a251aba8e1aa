package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const quizCatalogKey = "quiz:catalog:v1"
const quizCatalogTTL = 5 * time.Minute

// 仓储依赖收敛成小接口，便于用内存假实现做单元测试
type quizStore interface {
	CreateWithQuestions(quiz *model.Quiz, questions []*model.Question) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDAndOwner(id, ownerID uint) (*model.Quiz, error)
	ListAll() ([]model.Quiz, error)
	ListByOwner(ownerID uint) ([]model.Quiz, error)
	Update(quiz *model.Quiz) error
	DeleteCascade(id uint) error
}

type questionStore interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	ListByQuiz(quizID uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type attemptLister interface {
	ListByQuiz(quizID uint) ([]repository.AttemptWithUser, error)
}

type QuizService struct {
	QuizRepo     quizStore
	QuestionRepo questionStore
	AttemptRepo  attemptLister
	Redis        *redis.Client
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, attemptRepo *repository.AttemptRepository, rdb *redis.Client) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		Redis:        rdb,
	}
}

type QuestionReq struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	QuestionType  string   `json:"questionType" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Points        int      `json:"points"`
	Order         int      `json:"order"`
}

type QuizCreateReq struct {
	Title        string        `json:"title" binding:"required"`
	Description  string        `json:"description"`
	PassingScore *int          `json:"passingScore" binding:"omitempty,min=0,max=100"` // 缺省60；显式0表示必过
	TimeLimit    int           `json:"timeLimit" binding:"min=0"`
	Questions    []QuestionReq `json:"questions"`
}

type QuizUpdateReq struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	PassingScore *int    `json:"passingScore"`
	TimeLimit    *int    `json:"timeLimit"`
}

// buildQuestion 校验题目的类型变体并转成存储模型。
// multiple_choice 必须带至少两个选项且正确答案在选项内；
// true_false 不允许显式选项，答案只能是 True/False。
func buildQuestion(quizID uint, req QuestionReq) (*model.Question, error) {
	points := req.Points
	if points == 0 {
		points = 1
	}
	if points < 0 {
		return nil, errors.New("points must be a positive integer")
	}

	q := &model.Question{
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		QuestionType:  model.QuestionType(req.QuestionType),
		CorrectAnswer: req.CorrectAnswer,
		Points:        points,
		Order:         req.Order,
	}

	switch q.QuestionType {
	case model.MultipleChoice:
		if len(req.Options) < 2 {
			return nil, errors.New("multiple_choice question needs at least 2 options")
		}
		found := false
		for _, opt := range req.Options {
			if opt == req.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.New("correct answer must be one of the options")
		}
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		q.Options = raw
	case model.TrueFalse:
		if len(req.Options) > 0 {
			return nil, errors.New("true_false question must not carry options")
		}
		valid := false
		for _, v := range model.TrueFalseAnswers {
			if req.CorrectAnswer == v {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("true_false answer must be %q or %q", model.TrueFalseAnswers[0], model.TrueFalseAnswers[1])
		}
	default:
		return nil, fmt.Errorf("unsupported question type %q", req.QuestionType)
	}

	return q, nil
}

func (s *QuizService) CreateQuiz(creatorID uint, req QuizCreateReq) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CreatedBy:    creatorID,
		PassingScore: 60,
		TimeLimit:    req.TimeLimit,
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, errors.New("passing score must be between 0 and 100")
		}
		quiz.PassingScore = *req.PassingScore
	}

	// 先整体校验，避免建了测验一半题目非法
	questions := make([]*model.Question, 0, len(req.Questions))
	for _, qReq := range req.Questions {
		q, err := buildQuestion(0, qReq)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := s.QuizRepo.CreateWithQuestions(quiz, questions); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ownerID, quizID uint, req QuizUpdateReq) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDAndOwner(quizID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, errors.New("passing score must be between 0 and 100")
		}
		quiz.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ownerID, quizID uint) error {
	if _, err := s.QuizRepo.FindByIDAndOwner(quizID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	if err := s.QuizRepo.DeleteCascade(quizID); err != nil {
		return err
	}

	s.invalidateCatalog()
	return nil
}

// AdminQuizDetail 管理员视图：含正确答案与最近答卷
type AdminQuizDetail struct {
	Quiz      *model.Quiz                  `json:"quiz"`
	Questions []model.Question             `json:"questions"`
	Attempts  []repository.AttemptWithUser `json:"attempts"`
}

func (s *QuizService) GetQuizForAdmin(ownerID, quizID uint) (*AdminQuizDetail, error) {
	quiz, err := s.QuizRepo.FindByIDAndOwner(quizID, ownerID)
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

	attempts, err := s.AttemptRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	return &AdminQuizDetail{Quiz: quiz, Questions: questions, Attempts: attempts}, nil
}

// StudentQuestion 学生视图的题目，正确答案不下发
type StudentQuestion struct {
	ID           uint            `json:"id"`
	QuestionText string          `json:"questionText"`
	QuestionType string          `json:"questionType"`
	Options      json.RawMessage `json:"options,omitempty"`
	Points       int             `json:"points"`
	Order        int             `json:"order"`
}

type StudentQuizDetail struct {
	Quiz      *model.Quiz       `json:"quiz"`
	Questions []StudentQuestion `json:"questions"`
}

func (s *QuizService) GetQuizForStudent(quizID uint) (*StudentQuizDetail, error) {
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

	sanitized := make([]StudentQuestion, 0, len(questions))
	for _, q := range questions {
		sanitized = append(sanitized, StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			Options:      q.Options,
			Points:       q.Points,
			Order:        q.Order,
		})
	}

	return &StudentQuizDetail{Quiz: quiz, Questions: sanitized}, nil
}

// ListCatalog 学生测验目录，带短TTL的Redis缓存
func (s *QuizService) ListCatalog(ctx context.Context) ([]model.Quiz, error) {
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, quizCatalogKey).Result(); err == nil {
			var quizzes []model.Quiz
			if err := json.Unmarshal([]byte(val), &quizzes); err == nil {
				return quizzes, nil
			}
		}
	}

	quizzes, err := s.QuizRepo.ListAll()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(quizzes); err == nil {
			s.Redis.Set(ctx, quizCatalogKey, raw, quizCatalogTTL)
		}
	}
	return quizzes, nil
}

func (s *QuizService) ListByOwner(ownerID uint) ([]model.Quiz, error) {
	return s.QuizRepo.ListByOwner(ownerID)
}

func (s *QuizService) AddQuestion(ownerID, quizID uint, req QuestionReq) (*model.Question, error) {
	if _, err := s.QuizRepo.FindByIDAndOwner(quizID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	q, err := buildQuestion(quizID, req)
	if err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

// findOwnedQuestion 题目归属校验走父测验的 owner 过滤，结论与测验查询一致：
// 不存在和不属于调用者不区分
func (s *QuizService) findOwnedQuestion(ownerID, questionID uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if _, err := s.QuizRepo.FindByIDAndOwner(q.QuizID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuizService) UpdateQuestion(ownerID, questionID uint, req QuestionReq) (*model.Question, error) {
	existing, err := s.findOwnedQuestion(ownerID, questionID)
	if err != nil {
		return nil, err
	}

	updated, err := buildQuestion(existing.QuizID, req)
	if err != nil {
		return nil, err
	}

	existing.QuestionText = updated.QuestionText
	existing.QuestionType = updated.QuestionType
	existing.Options = updated.Options
	existing.CorrectAnswer = updated.CorrectAnswer
	existing.Points = updated.Points
	existing.Order = updated.Order

	if err := s.QuestionRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *QuizService) DeleteQuestion(ownerID, questionID uint) error {
	q, err := s.findOwnedQuestion(ownerID, questionID)
	if err != nil {
		return err
	}
	return s.QuestionRepo.Delete(q.ID)
}

func (s *QuizService) invalidateCatalog() {
	if s.Redis != nil {
		s.Redis.Del(context.Background(), quizCatalogKey)
	}
}
