package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

type fakeQuizReader struct {
	quiz *model.Quiz
}

func (f *fakeQuizReader) FindByID(id uint) (*model.Quiz, error) {
	if f.quiz == nil || f.quiz.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.quiz, nil
}

type fakeQuestionReader struct {
	questions []model.Question
}

func (f *fakeQuestionReader) ListByQuiz(quizID uint) ([]model.Question, error) {
	return f.questions, nil
}

type fakeAttemptStore struct {
	createErr error
	attempt   *model.Attempt
	records   []model.AnswerRecord
}

func (f *fakeAttemptStore) CreateWithAnswers(attempt *model.Attempt, answers []model.AnswerRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = "attempt-1"
	f.attempt = attempt
	f.records = answers
	return nil
}

func (f *fakeAttemptStore) ListByUser(userID uint) ([]repository.AttemptWithQuiz, error) {
	return nil, nil
}

func newSubmitFixture() (*AttemptService, *fakeAttemptStore) {
	store := &fakeAttemptStore{}
	svc := &AttemptService{
		QuizRepo: &fakeQuizReader{quiz: &model.Quiz{
			BaseModel:    model.BaseModel{ID: 10},
			Title:        "Go basics",
			PassingScore: 60,
		}},
		QuestionRepo: &fakeQuestionReader{questions: []model.Question{
			{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.MultipleChoice, CorrectAnswer: "A", Points: 1},
			{BaseModel: model.BaseModel{ID: 2}, QuestionType: model.TrueFalse, CorrectAnswer: "True", Points: 3},
		}},
		AttemptRepo: store,
	}
	return svc, store
}

func TestSubmitPersistsAttemptWithAnswers(t *testing.T) {
	svc, store := newSubmitFixture()

	result, err := svc.Submit(5, 10, map[uint]string{1: "A", 2: "True"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AttemptID != "attempt-1" {
		t.Errorf("AttemptID = %q, want id assigned by the store", result.AttemptID)
	}
	if result.Score != 100 || !result.Passed {
		t.Errorf("score = %v passed = %v, want 100 passed", result.Score, result.Passed)
	}
	if result.PassingScore != 60 {
		t.Errorf("PassingScore = %d, want 60", result.PassingScore)
	}

	if store.attempt == nil {
		t.Fatal("attempt was not persisted")
	}
	if store.attempt.UserID != 5 || store.attempt.QuizID != 10 {
		t.Errorf("persisted attempt for user %d quiz %d, want 5/10", store.attempt.UserID, store.attempt.QuizID)
	}
	if store.attempt.AttemptedAt.IsZero() {
		t.Error("AttemptedAt must be set")
	}
	if len(store.records) != 2 {
		t.Fatalf("persisted %d answer records, want one per question", len(store.records))
	}
	if !store.records[0].IsCorrect || !store.records[1].IsCorrect {
		t.Error("both answers were correct, records must record that")
	}
}

func TestSubmitUnknownQuiz(t *testing.T) {
	svc, store := newSubmitFixture()

	_, err := svc.Submit(5, 999, map[uint]string{1: "A"})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
	if store.attempt != nil {
		t.Error("nothing must be persisted for an unknown quiz")
	}
}

func TestSubmitIncompleteWritesNothing(t *testing.T) {
	svc, store := newSubmitFixture()

	_, err := svc.Submit(5, 10, map[uint]string{1: "A"})
	if !errors.Is(err, util.ErrAttemptIncomplete) {
		t.Fatalf("err = %v, want ErrAttemptIncomplete", err)
	}
	if store.attempt != nil || store.records != nil {
		t.Error("rejected submission must leave no attempt and no answer records")
	}
}

func TestSubmitStoreFailurePropagates(t *testing.T) {
	svc, store := newSubmitFixture()
	store.createErr = errors.New("deadlock")

	_, err := svc.Submit(5, 10, map[uint]string{1: "A", 2: "True"})
	if err == nil || err.Error() != "deadlock" {
		t.Fatalf("err = %v, want the store error", err)
	}
	if store.attempt != nil {
		t.Error("failed transaction must not leave a recorded attempt")
	}
}
