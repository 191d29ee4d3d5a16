package app

import (
	"errors"

	"github.com/dkeye/spotlight/internal/config"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
)

type BackpressureAction int

const (
	KickMember BackpressureAction = iota + 1
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(sid core.SessionID, role core.Role) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.SessionID, core.Role) BackpressureAction {
	return KickMember
}

var (
	ErrNoOpenQuestion = errors.New("no question is open")
	ErrHandNotRaised  = errors.New("audience member has not raised a hand")
)

// SelectionPolicy decides whether an audience member may be selected.
type SelectionPolicy interface {
	Name() string
	Eligible(q *domain.Question, a *domain.Audience) error
}

// HandRaisePolicy requires an open question and a raised hand.
type HandRaisePolicy struct{}

func (HandRaisePolicy) Name() string { return config.SelectionHandRaise }

func (HandRaisePolicy) Eligible(q *domain.Question, a *domain.Audience) error {
	if q == nil {
		return ErrNoOpenQuestion
	}
	if !a.HandRaised {
		return ErrHandNotRaised
	}
	return nil
}

// OpenPolicy selects anyone, with or without a question.
type OpenPolicy struct{}

func (OpenPolicy) Name() string { return config.SelectionOpen }

func (OpenPolicy) Eligible(*domain.Question, *domain.Audience) error { return nil }

func SelectionPolicyFor(mode string) SelectionPolicy {
	if mode == config.SelectionOpen {
		return OpenPolicy{}
	}
	return HandRaisePolicy{}
}
