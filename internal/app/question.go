package app

import (
	"time"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
)

// QuestionBoard gates selection eligibility: toggling the question always
// lowers every hand in the same step.
type QuestionBoard struct {
	cur *domain.Question
}

func NewQuestionBoard() *QuestionBoard { return &QuestionBoard{} }

func (b *QuestionBoard) Current() *domain.Question { return b.cur }

// Open replaces any current question.
func (b *QuestionBoard) Open(text string, reg *Registry) *domain.Question {
	b.cur = &domain.Question{Text: domain.NormalizeQuestion(text), OpenedAt: time.Now()}
	reg.ResetHands()
	return b.cur
}

// Close returns the question that was open, if any.
func (b *QuestionBoard) Close(reg *Registry) *domain.Question {
	prev := b.cur
	b.cur = nil
	reg.ResetHands()
	return prev
}

// SetHand updates one record. ok is false when sid is not registered.
func (b *QuestionBoard) SetHand(reg *Registry, sid core.SessionID, raised bool) (a *domain.Audience, changed, ok bool) {
	a, ok = reg.Get(sid)
	if !ok {
		return nil, false, false
	}
	if a.HandRaised == raised {
		return a, false, true
	}
	a.HandRaised = raised
	return a, true, true
}
