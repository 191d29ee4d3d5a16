package orch

import (
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/journal"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) OpenQuestion(sid core.SessionID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "open-question") {
		return
	}
	q := o.questions.Open(text, o.registry)
	o.journal.Record(journal.Entry{Kind: journal.KindQuestionOpened, Detail: q.Text})
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("question", q.Text).Msg("question opened")
	o.toAudience(questionEvent{Type: EventQuestionOpened, Question: q.Text})
	o.broadcastSnapshot()
}

func (o *Orchestrator) CloseQuestion(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "close-question") {
		return
	}
	prev := o.questions.Close(o.registry)
	if prev != nil {
		o.journal.Record(journal.Entry{Kind: journal.KindQuestionClosed, Detail: prev.Text})
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Bool("was_open", prev != nil).Msg("question closed")
	o.toAudience(typeEvent{Type: EventQuestionClosed})
	o.broadcastSnapshot()
}

func (o *Orchestrator) RaiseHand(sid core.SessionID) { o.setHand(sid, true) }

func (o *Orchestrator) LowerHand(sid core.SessionID) { o.setHand(sid, false) }

func (o *Orchestrator) setHand(sid core.SessionID, raised bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, changed, ok := o.questions.SetHand(o.registry, sid, raised)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Bool("raised", raised).Msg("hand change from unregistered connection")
		return
	}
	if !changed {
		return
	}
	log.Debug().Str("module", "orch").Str("code", string(a.Code)).Bool("raised", raised).Msg("hand changed")
	o.broadcastSnapshot()
}
