package orch

import (
	"errors"

	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
	"github.com/dkeye/spotlight/internal/journal"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) RegisterAdmin(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.channels.Classify(sid, core.RoleAdmin) {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("register-admin from audience connection")
		o.send(sid, errorEvent{Type: EventError, Error: "already_registered_as_audience"})
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("admin registered")
	o.send(sid, adminRegisteredEvent{
		Type:           EventAdminRegistered,
		ActiveAudience: o.registry.Len(),
		Snapshot:       o.snapshot(),
	})
}

// RegisterAudience assigns a code to sid. Registering again returns the code
// already held.
func (o *Orchestrator) RegisterAudience(sid core.SessionID, seat string, device domain.DeviceType) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.channels.Role(sid) == core.RoleAdmin {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("register-audience from admin connection")
		o.send(sid, errorEvent{Type: EventError, Error: "already_registered_as_admin"})
		return
	}
	if a, ok := o.registry.Get(sid); ok {
		o.send(sid, codeEvent{Type: EventCodeAssigned, Code: a.Code})
		return
	}

	a, err := o.registry.Register(sid, seat, device)
	if err != nil {
		if errors.Is(err, app.ErrCodeSpaceExhausted) {
			live, retired, capacity := o.codes.Stats()
			log.Error().
				Err(err).
				Str("module", "orch").
				Str("sid", string(sid)).
				Int("live", live).
				Int("retired", retired).
				Int("capacity", capacity).
				Msg("cannot issue audience code")
			o.send(sid, errorEvent{Type: EventError, Error: "code_space_exhausted"})
			return
		}
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("register audience")
		o.send(sid, errorEvent{Type: EventError, Error: "registration_failed"})
		return
	}
	o.channels.Classify(sid, core.RoleAudience)
	o.journal.Record(journal.Entry{Kind: journal.KindCodeIssued, Code: string(a.Code), Detail: a.SeatNumber})

	o.send(sid, codeEvent{Type: EventCodeAssigned, Code: a.Code})
	if q := o.questions.Current(); q != nil {
		o.send(sid, questionEvent{Type: EventQuestionOpened, Question: q.Text})
	}
	o.broadcastSnapshot()
}

// SendAudienceList replies to one admin with the current snapshot.
func (o *Orchestrator) SendAudienceList(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "get-audience-list") {
		return
	}
	o.send(sid, snapshotEvent{Type: EventAudienceUpdated, Snapshot: o.snapshot()})
}
