package service

import (
	"testing"
	"time"
)

func TestSessionStoreGetOrCreate(t *testing.T) {
	store := NewSessionStore(time.Hour)

	s1 := store.GetOrCreate("")
	if s1.ID == "" {
		t.Fatal("new session must get an ID")
	}

	s2 := store.GetOrCreate(s1.ID)
	if s2 != s1 {
		t.Error("known ID should return the same session")
	}

	s3 := store.GetOrCreate("unknown-id")
	if s3 == s1 || s3.ID == "unknown-id" {
		t.Error("unknown ID should create a fresh session with a new ID")
	}
}

func TestSessionOneShotResetFlag(t *testing.T) {
	s := newSession("s1")

	if s.ConsumeResetSuccess() {
		t.Error("flag should start cleared")
	}
	s.markResetSuccess()
	if !s.ConsumeResetSuccess() {
		t.Error("flag should be visible once")
	}
	if s.ConsumeResetSuccess() {
		t.Error("flag must be consumed by the first read")
	}
}

func TestSessionOneShotVerdict(t *testing.T) {
	s := newSession("s1")

	if s.ConsumeVerdict() != nil {
		t.Error("verdict should start empty")
	}
	s.SetVerdict(&GradeResult{QuestionID: 1, Correct: true})
	v := s.ConsumeVerdict()
	if v == nil || v.QuestionID != 1 {
		t.Fatalf("verdict = %+v", v)
	}
	if s.ConsumeVerdict() != nil {
		t.Error("verdict must be consumed by the first read")
	}
}

func TestSessionIsolation(t *testing.T) {
	store := NewSessionStore(time.Hour)
	a := store.GetOrCreate("")
	b := store.GetOrCreate("")

	a.setPageNumber(3)
	a.markResetSuccess()

	if b.PageNumber() != 0 {
		t.Error("page number leaked across sessions")
	}
	if b.ConsumeResetSuccess() {
		t.Error("reset flag leaked across sessions")
	}
}
