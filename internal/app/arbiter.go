package app

import (
	"errors"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
)

var (
	ErrStreamActive    = errors.New("a stream is already active")
	ErrAlreadySelected = errors.New("code is already selected")
	ErrNotSelected     = errors.New("connection is not the selected audience member")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseStreaming
)

func (p Phase) String() string {
	switch p {
	case PhaseSelected:
		return "selected"
	case PhaseStreaming:
		return "streaming"
	default:
		return "idle"
	}
}

// Stream is the arbiter state. Code and SID are set iff Phase != PhaseIdle.
type Stream struct {
	Phase Phase
	Code  domain.Code
	SID   core.SessionID
}

func (s Stream) Active() bool { return s.Phase == PhaseStreaming }

// Arbiter enforces "at most one active stream, and it must have been explicitly
// selected". It only tracks the phase; record flags are kept in step by the
// Orchestrator within the same critical section.
type Arbiter struct {
	cur Stream
}

func NewArbiter() *Arbiter { return &Arbiter{} }

func (a *Arbiter) Current() Stream { return a.cur }

// Select moves to Selected(code). A pending selection may be replaced until
// the selected member confirms with stream-started; the replaced one is returned.
func (a *Arbiter) Select(sid core.SessionID, code domain.Code) (Stream, error) {
	switch a.cur.Phase {
	case PhaseStreaming:
		return Stream{}, ErrStreamActive
	case PhaseSelected:
		if a.cur.Code == code {
			return Stream{}, ErrAlreadySelected
		}
	}
	prev := a.cur
	a.cur = Stream{Phase: PhaseSelected, Code: code, SID: sid}
	return prev, nil
}

// Start confirms the selection made for sid.
func (a *Arbiter) Start(sid core.SessionID) (domain.Code, error) {
	if a.cur.Phase != PhaseSelected || a.cur.SID != sid {
		return "", ErrNotSelected
	}
	a.cur.Phase = PhaseStreaming
	return a.cur.Code, nil
}

// Clear returns to Idle and reports the state that was left.
func (a *Arbiter) Clear() Stream {
	prev := a.cur
	a.cur = Stream{}
	return prev
}

// Holds reports whether sid is the selected or streaming member.
func (a *Arbiter) Holds(sid core.SessionID) bool {
	return a.cur.Phase != PhaseIdle && a.cur.SID == sid
}
