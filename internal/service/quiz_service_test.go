package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"snowpro_quiz_backend/internal/model"
	"snowpro_quiz_backend/internal/util"
	"snowpro_quiz_backend/pkg/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "quiz-test")
	if err != nil {
		panic(err)
	}
	logger.InitLogger("debug", filepath.Join(dir, "test.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type fakeQuestionLoader struct {
	questions []model.Question
	calls     int
	err       error
}

func (f *fakeQuestionLoader) ListVisible() ([]model.Question, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

type fakeAnswerStore struct {
	rows    map[string]map[int64]model.LabelSet
	upserts int
	deletes int
	resets  int
	err     error
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{rows: make(map[string]map[int64]model.LabelSet)}
}

func (f *fakeAnswerStore) GetAnswers(userID string) (map[int64]model.LabelSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	answers := make(map[int64]model.LabelSet, len(f.rows[userID]))
	for qid, labels := range f.rows[userID] {
		answers[qid] = labels
	}
	return answers, nil
}

func (f *fakeAnswerStore) Upsert(userID string, questionID int64, labels model.LabelSet) error {
	if f.err != nil {
		return f.err
	}
	f.upserts++
	if f.rows[userID] == nil {
		f.rows[userID] = make(map[int64]model.LabelSet)
	}
	f.rows[userID][questionID] = labels
	return nil
}

func (f *fakeAnswerStore) Delete(userID string, questionID int64) error {
	if f.err != nil {
		return f.err
	}
	f.deletes++
	delete(f.rows[userID], questionID)
	return nil
}

func (f *fakeAnswerStore) Reset(userID string) error {
	if f.err != nil {
		return f.err
	}
	f.resets++
	delete(f.rows, userID)
	return nil
}

type fakeFlagStore struct {
	rows []model.FlaggedQuestion
}

func (f *fakeFlagStore) Add(q *model.Question, flaggedBy string) error {
	f.rows = append(f.rows, *model.NewFlaggedQuestion(q, flaggedBy))
	return nil
}

func makeQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			QuestionID:               int64(i + 1),
			Question:                 fmt.Sprintf("question %d", i+1),
			AnswerA:                  "option a",
			AnswerB:                  "option b",
			AnswerC:                  "option c",
			FormattedSuggestedAnswer: "A, C",
			URL:                      fmt.Sprintf("https://example.com/q/%d", i+1),
			IsShowed:                 "Y",
		}
	}
	return qs
}

func newTestService(n int) (*QuizService, *fakeAnswerStore, *fakeFlagStore) {
	answers := newFakeAnswerStore()
	flags := &fakeFlagStore{}
	cache := NewQuestionCache(&fakeQuestionLoader{questions: makeQuestions(n)})
	return NewQuizService(cache, answers, flags, 10), answers, flags
}

const testUser = "test_user@example.com"

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		total int
		want  int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{20, 2},
		{21, 3},
	}

	svc, _, _ := newTestService(0)
	for _, tc := range testCases {
		if got := svc.TotalPages(tc.total); got != tc.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestPaginationBoundaries(t *testing.T) {
	svc, _, _ := newTestService(11)
	sess := newSession("s1")

	page, err := svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", page.TotalPages)
	}
	if len(page.Questions) != 10 {
		t.Fatalf("page 0 has %d questions, want 10", len(page.Questions))
	}
	if page.Questions[0].Question.QuestionID != 1 || page.Questions[9].Question.QuestionID != 10 {
		t.Error("page 0 should show questions 1-10")
	}

	// Previous at page 0 is a no-op
	svc.Previous(sess)
	if sess.PageNumber() != 0 {
		t.Error("Previous at first page should be a no-op")
	}

	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	page, err = svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Questions) != 1 || page.Questions[0].Question.QuestionID != 11 {
		t.Errorf("page 1 should show only question 11, got %d questions", len(page.Questions))
	}

	// Next at the last page is a no-op
	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	if sess.PageNumber() != 1 {
		t.Error("Next at last page should be a no-op")
	}
}

func TestSinglePageNextIsNoop(t *testing.T) {
	svc, _, _ := newTestService(10)
	sess := newSession("s1")

	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	if sess.PageNumber() != 0 {
		t.Error("Next with a single page should be a no-op")
	}
}

func TestZeroQuestionsBoundary(t *testing.T) {
	svc, _, _ := newTestService(0)
	sess := newSession("s1")

	page, err := svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 for an empty bank", page.TotalPages)
	}
	if len(page.Questions) != 0 {
		t.Errorf("expected an empty page, got %d questions", len(page.Questions))
	}
	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	if sess.PageNumber() != 0 {
		t.Error("Next on an empty bank should stay on page 0")
	}
}

func TestReconcileWritesAndRefreshes(t *testing.T) {
	svc, answers, _ := newTestService(3)
	sess := newSession("s1")

	checked := model.NewLabelSet("A", "C")
	if err := svc.Reconcile(sess, testUser, 1, checked); err != nil {
		t.Fatal(err)
	}
	if answers.upserts != 1 {
		t.Errorf("expected 1 upsert, got %d", answers.upserts)
	}
	if !sess.AnswerFor(1).Equal(checked) {
		t.Errorf("session cache not refreshed, got %v", sess.AnswerFor(1))
	}

	// identical selection again: idempotent render, no write
	if err := svc.Reconcile(sess, testUser, 1, model.NewLabelSet("C", "A")); err != nil {
		t.Fatal(err)
	}
	if answers.upserts != 1 {
		t.Errorf("equal set must not write, got %d upserts", answers.upserts)
	}

	// changed selection writes again
	if err := svc.Reconcile(sess, testUser, 1, model.NewLabelSet("B")); err != nil {
		t.Fatal(err)
	}
	if answers.upserts != 2 {
		t.Errorf("expected 2 upserts after change, got %d", answers.upserts)
	}
	if got := answers.rows[testUser][1].String(); got != "B" {
		t.Errorf("stored answer = %q, want %q", got, "B")
	}
}

func TestReconcileDeleteOnEmpty(t *testing.T) {
	svc, answers, _ := newTestService(3)
	answers.rows[testUser] = map[int64]model.LabelSet{2: model.NewLabelSet("B")}
	sess := newSession("s1")

	if err := svc.Reconcile(sess, testUser, 2, nil); err != nil {
		t.Fatal(err)
	}
	if answers.deletes != 1 {
		t.Errorf("expected 1 delete, got %d", answers.deletes)
	}
	stored, err := answers.GetAnswers(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stored[2]; ok {
		t.Error("row should be gone after deselecting everything")
	}
	if sess.AnswerFor(2) != nil {
		t.Error("session cache should have no entry after delete")
	}
}

func TestReconcileStoreFailureKeepsCache(t *testing.T) {
	svc, answers, _ := newTestService(3)
	answers.rows[testUser] = map[int64]model.LabelSet{1: model.NewLabelSet("A")}
	sess := newSession("s1")

	if err := svc.ensureAnswers(sess, testUser); err != nil {
		t.Fatal(err)
	}

	answers.err = errors.New("store unavailable")
	err := svc.Reconcile(sess, testUser, 1, model.NewLabelSet("B"))
	if err == nil {
		t.Fatal("expected the store failure to propagate")
	}
	// cache is only refreshed after a successful write
	if !sess.AnswerFor(1).Equal(model.NewLabelSet("A")) {
		t.Errorf("cache changed after failed write: %v", sess.AnswerFor(1))
	}
}

func TestReconcilePageTreatsMissingAsEmpty(t *testing.T) {
	svc, answers, _ := newTestService(3)
	answers.rows[testUser] = map[int64]model.LabelSet{
		1: model.NewLabelSet("A"),
		2: model.NewLabelSet("B"),
	}
	sess := newSession("s1")

	// question 2 not present in the submitted form: everything got unchecked
	checked := map[int64]model.LabelSet{1: model.NewLabelSet("A")}
	if err := svc.ReconcilePage(sess, testUser, checked); err != nil {
		t.Fatal(err)
	}
	if answers.upserts != 0 {
		t.Errorf("unchanged selection wrote %d times", answers.upserts)
	}
	if answers.deletes != 1 {
		t.Errorf("expected 1 delete for the unchecked question, got %d", answers.deletes)
	}
}

func TestGradeSetEquality(t *testing.T) {
	testCases := []struct {
		name    string
		checked model.LabelSet
		correct bool
	}{
		{"exact match unordered", model.NewLabelSet("C", "A"), true},
		{"subset", model.NewLabelSet("A"), false},
		{"superset", model.NewLabelSet("A", "B", "C"), false},
		{"empty", nil, false},
	}

	svc, _, _ := newTestService(1) // suggested answer is "A, C"
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Grade(1, tc.checked)
			if err != nil {
				t.Fatal(err)
			}
			if result.Correct != tc.correct {
				t.Errorf("Correct = %v, want %v", result.Correct, tc.correct)
			}
			if !tc.correct {
				if result.CorrectLabels.String() != "A, C" {
					t.Errorf("CorrectLabels = %q, want revealed answer", result.CorrectLabels)
				}
				if result.URL == "" {
					t.Error("reference URL should be revealed on mismatch")
				}
			}
		})
	}
}

func TestGradeMalformedSuggestedAnswer(t *testing.T) {
	answers := newFakeAnswerStore()
	cache := NewQuestionCache(&fakeQuestionLoader{questions: []model.Question{
		{QuestionID: 1, FormattedSuggestedAnswer: ""},
		{QuestionID: 2, FormattedSuggestedAnswer: "garbage"},
	}})
	svc := NewQuizService(cache, answers, &fakeFlagStore{}, 10)

	for _, qid := range []int64{1, 2} {
		for _, checked := range []model.LabelSet{nil, model.NewLabelSet("A")} {
			result, err := svc.Grade(qid, checked)
			if err != nil {
				t.Fatal(err)
			}
			if result.Correct {
				t.Errorf("question %d with checked %v: malformed answer must grade incorrect", qid, checked)
			}
		}
	}
}

func TestGradeUnknownQuestion(t *testing.T) {
	svc, _, _ := newTestService(1)
	if _, err := svc.Grade(99, nil); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestFlagDoesNotDeduplicate(t *testing.T) {
	svc, _, flags := newTestService(2)

	if err := svc.Flag(1, testUser); err != nil {
		t.Fatal(err)
	}
	if err := svc.Flag(1, testUser); err != nil {
		t.Fatal(err)
	}
	if len(flags.rows) != 2 {
		t.Fatalf("expected 2 flag rows, got %d", len(flags.rows))
	}
	for _, row := range flags.rows {
		if row.QuestionID != 1 || row.InsertedBy != testUser {
			t.Errorf("unexpected flag row: %+v", row)
		}
		if row.SuggestedAnswer != "A, C" {
			t.Errorf("flag should snapshot the suggested answer, got %q", row.SuggestedAnswer)
		}
	}
}

func TestResetClearsEverything(t *testing.T) {
	svc, answers, _ := newTestService(3)
	answers.rows[testUser] = map[int64]model.LabelSet{
		1: model.NewLabelSet("A"),
		2: model.NewLabelSet("B", "C"),
	}
	sess := newSession("s1")

	if err := svc.ensureAnswers(sess, testUser); err != nil {
		t.Fatal(err)
	}
	if sess.AnsweredCount() != 2 {
		t.Fatalf("precondition: answered = %d, want 2", sess.AnsweredCount())
	}

	if err := svc.Reset(sess, testUser); err != nil {
		t.Fatal(err)
	}

	stored, err := answers.GetAnswers(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 0 {
		t.Errorf("store still holds %d rows after reset", len(stored))
	}
	if sess.AnsweredCount() != 0 {
		t.Errorf("answered = %d after reset, want 0", sess.AnsweredCount())
	}

	// the success banner shows exactly once
	page, err := svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if !page.ResetSuccess {
		t.Error("first render after reset should show the banner")
	}
	page, err = svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if page.ResetSuccess {
		t.Error("banner must not survive a second render")
	}

	// reset with nothing stored is idempotent
	if err := svc.Reset(sess, testUser); err != nil {
		t.Error("reset of an empty store must not fail:", err)
	}
}

func TestBuildPageMergesStoredAnswers(t *testing.T) {
	svc, answers, _ := newTestService(3)
	answers.rows[testUser] = map[int64]model.LabelSet{2: model.NewLabelSet("A", "C")}
	sess := newSession("s1")

	page, err := svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if page.Answered != 1 || page.Total != 3 {
		t.Errorf("answered/total = %d/%d, want 1/3", page.Answered, page.Total)
	}
	for _, qv := range page.Questions {
		if qv.Question.QuestionID == 2 {
			if !qv.Selected.Equal(model.NewLabelSet("A", "C")) {
				t.Errorf("question 2 selection = %v", qv.Selected)
			}
		} else if !qv.Selected.IsEmpty() {
			t.Errorf("question %d should have no selection", qv.Question.QuestionID)
		}
	}
}

func TestPageSizeHotReloadClampsPage(t *testing.T) {
	svc, _, _ := newTestService(30)
	sess := newSession("s1")

	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	if err := svc.Next(sess); err != nil {
		t.Fatal(err)
	}
	if sess.PageNumber() != 2 {
		t.Fatalf("page = %d, want 2", sess.PageNumber())
	}

	svc.SetPageSize(30)
	page, err := svc.BuildPage(sess, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if page.PageNumber != 0 || page.TotalPages != 1 {
		t.Errorf("page/totalPages = %d/%d after shrink, want 0/1", page.PageNumber, page.TotalPages)
	}

	// non-positive sizes are ignored
	svc.SetPageSize(0)
	if svc.PageSize() != 30 {
		t.Errorf("PageSize = %d, want 30", svc.PageSize())
	}
}
