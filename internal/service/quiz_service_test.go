package service

import (
	"encoding/json"
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func TestBuildQuestionMultipleChoice(t *testing.T) {
	t.Run("valid question", func(t *testing.T) {
		q, err := buildQuestion(3, QuestionReq{
			QuestionText:  "Capital of France?",
			QuestionType:  "multiple_choice",
			Options:       []string{"Paris", "London", "Berlin"},
			CorrectAnswer: "Paris",
			Points:        2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.QuizID != 3 || q.Points != 2 {
			t.Errorf("quizID/points = %d/%d, want 3/2", q.QuizID, q.Points)
		}

		var opts []string
		if err := json.Unmarshal(q.Options, &opts); err != nil {
			t.Fatalf("options not stored as JSON array: %v", err)
		}
		if len(opts) != 3 || opts[0] != "Paris" {
			t.Errorf("options = %v", opts)
		}
	})

	t.Run("points default to one", func(t *testing.T) {
		q, err := buildQuestion(1, QuestionReq{
			QuestionText:  "q",
			QuestionType:  "multiple_choice",
			Options:       []string{"A", "B"},
			CorrectAnswer: "A",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Points != 1 {
			t.Errorf("points = %d, want 1", q.Points)
		}
	})

	t.Run("rejects fewer than two options", func(t *testing.T) {
		_, err := buildQuestion(1, QuestionReq{
			QuestionText:  "q",
			QuestionType:  "multiple_choice",
			Options:       []string{"A"},
			CorrectAnswer: "A",
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects correct answer outside options", func(t *testing.T) {
		_, err := buildQuestion(1, QuestionReq{
			QuestionText:  "q",
			QuestionType:  "multiple_choice",
			Options:       []string{"A", "B"},
			CorrectAnswer: "C",
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects negative points", func(t *testing.T) {
		_, err := buildQuestion(1, QuestionReq{
			QuestionText:  "q",
			QuestionType:  "multiple_choice",
			Options:       []string{"A", "B"},
			CorrectAnswer: "A",
			Points:        -2,
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestBuildQuestionTrueFalse(t *testing.T) {
	t.Run("valid question has no stored options", func(t *testing.T) {
		q, err := buildQuestion(1, QuestionReq{
			QuestionText:  "Go has generics",
			QuestionType:  "true_false",
			CorrectAnswer: "True",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Options != nil {
			t.Errorf("options = %s, want none", q.Options)
		}
		if q.QuestionType != model.TrueFalse {
			t.Errorf("type = %q", q.QuestionType)
		}
	})

	t.Run("rejects explicit options", func(t *testing.T) {
		_, err := buildQuestion(1, QuestionReq{
			QuestionText:  "q",
			QuestionType:  "true_false",
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("answer must match canonical casing", func(t *testing.T) {
		for _, bad := range []string{"true", "FALSE", "yes", ""} {
			if _, err := buildQuestion(1, QuestionReq{
				QuestionText:  "q",
				QuestionType:  "true_false",
				CorrectAnswer: bad,
			}); err == nil {
				t.Errorf("answer %q must be rejected", bad)
			}
		}
	})
}

func TestBuildQuestionUnsupportedType(t *testing.T) {
	_, err := buildQuestion(1, QuestionReq{
		QuestionText:  "q",
		QuestionType:  "essay",
		CorrectAnswer: "x",
	})
	if err == nil {
		t.Fatal("expected error for unsupported question type")
	}
}

type fakeQuizStore struct {
	quizzes map[uint]*model.Quiz
	nextID  uint

	created   *model.Quiz
	createdQs []*model.Question
	updated   *model.Quiz
	deleted   []uint
}

func (f *fakeQuizStore) CreateWithQuestions(quiz *model.Quiz, questions []*model.Question) error {
	f.nextID++
	quiz.ID = f.nextID
	for _, q := range questions {
		q.QuizID = quiz.ID
	}
	f.created = quiz
	f.createdQs = questions
	return nil
}

func (f *fakeQuizStore) FindByID(id uint) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuizStore) FindByIDAndOwner(id, ownerID uint) (*model.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok || q.CreatedBy != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuizStore) ListAll() ([]model.Quiz, error)               { return nil, nil }
func (f *fakeQuizStore) ListByOwner(ownerID uint) ([]model.Quiz, error) { return nil, nil }

func (f *fakeQuizStore) Update(quiz *model.Quiz) error {
	f.updated = quiz
	return nil
}

func (f *fakeQuizStore) DeleteCascade(id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeQuestionStore struct {
	questions []model.Question
	created   []*model.Question
}

func (f *fakeQuestionStore) Create(q *model.Question) error {
	f.created = append(f.created, q)
	return nil
}

func (f *fakeQuestionStore) FindByID(id uint) (*model.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			return &f.questions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionStore) ListByQuiz(quizID uint) ([]model.Question, error) {
	return f.questions, nil
}

func (f *fakeQuestionStore) Update(q *model.Question) error { return nil }
func (f *fakeQuestionStore) Delete(id uint) error           { return nil }

type fakeAttemptLister struct{}

func (f *fakeAttemptLister) ListByQuiz(quizID uint) ([]repository.AttemptWithUser, error) {
	return nil, nil
}

func newQuizFixture(quizzes map[uint]*model.Quiz) (*QuizService, *fakeQuizStore) {
	store := &fakeQuizStore{quizzes: quizzes}
	svc := &QuizService{
		QuizRepo:     store,
		QuestionRepo: &fakeQuestionStore{},
		AttemptRepo:  &fakeAttemptLister{},
	}
	return svc, store
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestQuizOwnershipConflation(t *testing.T) {
	// id 7 属于管理员 1；管理员 2 的访问必须与“不存在”不可区分
	svc, store := newQuizFixture(map[uint]*model.Quiz{
		7: {BaseModel: model.BaseModel{ID: 7}, Title: "foreign", CreatedBy: 1, PassingScore: 60},
	})

	t.Run("delete of a foreign quiz reads as not found", func(t *testing.T) {
		if err := svc.DeleteQuiz(2, 7); !errors.Is(err, util.ErrQuizNotFound) {
			t.Fatalf("err = %v, want ErrQuizNotFound", err)
		}
		if len(store.deleted) != 0 {
			t.Error("foreign quiz must not be deleted")
		}
	})

	t.Run("update of a foreign quiz reads as not found", func(t *testing.T) {
		_, err := svc.UpdateQuiz(2, 7, QuizUpdateReq{Title: strPtr("hijacked")})
		if !errors.Is(err, util.ErrQuizNotFound) {
			t.Fatalf("err = %v, want ErrQuizNotFound", err)
		}
		if store.updated != nil {
			t.Error("foreign quiz must not be updated")
		}
	})

	t.Run("admin detail of a foreign quiz reads as not found", func(t *testing.T) {
		if _, err := svc.GetQuizForAdmin(2, 7); !errors.Is(err, util.ErrQuizNotFound) {
			t.Fatalf("err = %v, want ErrQuizNotFound", err)
		}
	})

	t.Run("delete of an unknown quiz reads the same", func(t *testing.T) {
		if err := svc.DeleteQuiz(2, 999); !errors.Is(err, util.ErrQuizNotFound) {
			t.Fatalf("err = %v, want ErrQuizNotFound", err)
		}
	})

	t.Run("owner can delete", func(t *testing.T) {
		if err := svc.DeleteQuiz(1, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.deleted) != 1 || store.deleted[0] != 7 {
			t.Errorf("deleted = %v, want [7]", store.deleted)
		}
	})
}

func TestCreateQuiz(t *testing.T) {
	t.Run("quiz and questions reach the store in one call", func(t *testing.T) {
		svc, store := newQuizFixture(nil)

		quiz, err := svc.CreateQuiz(1, QuizCreateReq{
			Title: "Go basics",
			Questions: []QuestionReq{
				{QuestionText: "q1", QuestionType: "multiple_choice", Options: []string{"A", "B"}, CorrectAnswer: "A"},
				{QuestionText: "q2", QuestionType: "true_false", CorrectAnswer: "True"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.created == nil || len(store.createdQs) != 2 {
			t.Fatalf("store got quiz=%v with %d questions, want quiz with 2 questions together", store.created, len(store.createdQs))
		}
		if quiz.CreatedBy != 1 {
			t.Errorf("createdBy = %d, want caller id", quiz.CreatedBy)
		}
	})

	t.Run("omitted passing score defaults to 60", func(t *testing.T) {
		svc, _ := newQuizFixture(nil)
		quiz, err := svc.CreateQuiz(1, QuizCreateReq{Title: "t"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quiz.PassingScore != 60 {
			t.Errorf("passingScore = %d, want 60", quiz.PassingScore)
		}
	})

	t.Run("explicit zero passing score is kept", func(t *testing.T) {
		svc, _ := newQuizFixture(nil)
		quiz, err := svc.CreateQuiz(1, QuizCreateReq{Title: "always pass", PassingScore: intPtr(0)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quiz.PassingScore != 0 {
			t.Errorf("passingScore = %d, want explicit 0 preserved", quiz.PassingScore)
		}
	})

	t.Run("out-of-range passing score is rejected", func(t *testing.T) {
		svc, store := newQuizFixture(nil)
		if _, err := svc.CreateQuiz(1, QuizCreateReq{Title: "t", PassingScore: intPtr(101)}); err == nil {
			t.Fatal("expected error")
		}
		if store.created != nil {
			t.Error("nothing must be written")
		}
	})

	t.Run("invalid question aborts before any write", func(t *testing.T) {
		svc, store := newQuizFixture(nil)
		_, err := svc.CreateQuiz(1, QuizCreateReq{
			Title: "t",
			Questions: []QuestionReq{
				{QuestionText: "ok", QuestionType: "true_false", CorrectAnswer: "True"},
				{QuestionText: "bad", QuestionType: "multiple_choice", Options: []string{"A"}, CorrectAnswer: "A"},
			},
		})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if store.created != nil || store.createdQs != nil {
			t.Error("a quiz with an invalid question must not be written at all")
		}
	})
}
