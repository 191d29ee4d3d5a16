package app

import (
	"errors"
	"testing"

	"github.com/dkeye/spotlight/internal/domain"
)

func TestArbiterTransitions(t *testing.T) {
	a := NewArbiter()
	if a.Current().Phase != PhaseIdle {
		t.Fatalf("Expected idle, got %s", a.Current().Phase)
	}

	if _, err := a.Start("s1"); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Expected ErrNotSelected from idle, got %v", err)
	}

	prev, err := a.Select("s1", "AAAA")
	if err != nil || prev.Phase != PhaseIdle {
		t.Fatalf("Select: prev=%+v err=%v", prev, err)
	}
	if _, err := a.Select("s1", "AAAA"); !errors.Is(err, ErrAlreadySelected) {
		t.Errorf("Expected ErrAlreadySelected, got %v", err)
	}

	// Replacing a pending selection is allowed before stream-started.
	prev, err = a.Select("s2", "BBBB")
	if err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if prev.Code != "AAAA" || prev.Phase != PhaseSelected {
		t.Errorf("Expected replaced selection AAAA, got %+v", prev)
	}

	if _, err := a.Start("s1"); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Expected ErrNotSelected for replaced member, got %v", err)
	}
	code, err := a.Start("s2")
	if err != nil || code != "BBBB" {
		t.Fatalf("Start: %s %v", code, err)
	}
	if !a.Current().Active() || !a.Holds("s2") {
		t.Errorf("Expected streaming held by s2, got %+v", a.Current())
	}

	if _, err := a.Select("s1", "AAAA"); !errors.Is(err, ErrStreamActive) {
		t.Errorf("Expected ErrStreamActive, got %v", err)
	}

	left := a.Clear()
	if left.Phase != PhaseStreaming || left.Code != "BBBB" {
		t.Errorf("Unexpected cleared state %+v", left)
	}
	if a.Current() != (Stream{}) {
		t.Errorf("Expected zero state after Clear, got %+v", a.Current())
	}
}

func TestHandRaisePolicy(t *testing.T) {
	p := HandRaisePolicy{}
	q := &domain.Question{Text: "Any questions?"}
	a := &domain.Audience{Code: "AAAA"}

	if err := p.Eligible(nil, a); !errors.Is(err, ErrNoOpenQuestion) {
		t.Errorf("Expected ErrNoOpenQuestion, got %v", err)
	}
	if err := p.Eligible(q, a); !errors.Is(err, ErrHandNotRaised) {
		t.Errorf("Expected ErrHandNotRaised, got %v", err)
	}
	a.HandRaised = true
	if err := p.Eligible(q, a); err != nil {
		t.Errorf("Expected eligible with raised hand, got %v", err)
	}
	a.HandRaised, a.Streaming = false, true
	if err := p.Eligible(q, a); !errors.Is(err, ErrHandNotRaised) {
		t.Errorf("Expected a lowered hand to be ineligible, got %v", err)
	}

	if err := (OpenPolicy{}).Eligible(nil, &domain.Audience{}); err != nil {
		t.Errorf("Expected open policy to allow anyone, got %v", err)
	}
	if SelectionPolicyFor("open").Name() != "open" || SelectionPolicyFor("").Name() != "hand-raise" {
		t.Error("SelectionPolicyFor mapped modes incorrectly")
	}
}

func TestQuestionBoard(t *testing.T) {
	r := NewRegistry(NewCodeGenerator())
	b := NewQuestionBoard()
	rec, err := r.Register("s1", "", domain.DeviceWeb)
	if err != nil {
		t.Fatal(err)
	}

	if _, changed, ok := b.SetHand(r, "nobody", true); ok || changed {
		t.Error("Expected SetHand on unregistered sid to be rejected")
	}
	if _, changed, ok := b.SetHand(r, "s1", true); !ok || !changed {
		t.Error("Expected hand raise to change state")
	}
	if _, changed, _ := b.SetHand(r, "s1", true); changed {
		t.Error("Expected repeated raise to be a no-op")
	}

	q := b.Open("  What now?  ", r)
	if q.OpenedAt.IsZero() {
		t.Error("Expected opening time to be set")
	}
	if q.Text != "What now?" || b.Current() == nil {
		t.Errorf("Unexpected question %+v", q)
	}
	if rec.HandRaised {
		t.Error("Expected open to lower hands")
	}

	rec.HandRaised = true
	if prev := b.Close(r); prev == nil || prev.Text != "What now?" {
		t.Errorf("Expected closed question returned, got %+v", prev)
	}
	if rec.HandRaised || b.Current() != nil {
		t.Error("Expected close to lower hands and clear question")
	}
}
