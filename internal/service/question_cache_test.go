package service

import (
	"errors"
	"testing"

	"snowpro_quiz_backend/internal/util"
)

func TestQuestionCacheLoadsOnce(t *testing.T) {
	loader := &fakeQuestionLoader{questions: makeQuestions(3)}
	cache := NewQuestionCache(loader)

	for i := 0; i < 5; i++ {
		qs, err := cache.Questions()
		if err != nil {
			t.Fatal(err)
		}
		if len(qs) != 3 {
			t.Fatalf("got %d questions", len(qs))
		}
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	loader := &fakeQuestionLoader{questions: makeQuestions(3)}
	cache := NewQuestionCache(loader)

	if _, err := cache.Questions(); err != nil {
		t.Fatal(err)
	}

	loader.questions = makeQuestions(5)
	cache.Invalidate()

	qs, err := cache.Questions()
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 5 {
		t.Errorf("got %d questions after invalidate, want 5", len(qs))
	}
	if loader.calls != 2 {
		t.Errorf("loader called %d times, want 2", loader.calls)
	}
}

func TestQuestionCacheDoesNotCacheErrors(t *testing.T) {
	loader := &fakeQuestionLoader{err: errors.New("connection refused")}
	cache := NewQuestionCache(loader)

	if _, err := cache.Questions(); err == nil {
		t.Fatal("expected the load failure to surface")
	}

	loader.err = nil
	loader.questions = makeQuestions(2)
	qs, err := cache.Questions()
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Errorf("got %d questions after recovery, want 2", len(qs))
	}
}

func TestQuestionCacheFindByID(t *testing.T) {
	cache := NewQuestionCache(&fakeQuestionLoader{questions: makeQuestions(3)})

	q, err := cache.FindByID(2)
	if err != nil {
		t.Fatal(err)
	}
	if q.QuestionID != 2 {
		t.Errorf("QuestionID = %d, want 2", q.QuestionID)
	}

	if _, err := cache.FindByID(42); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}
