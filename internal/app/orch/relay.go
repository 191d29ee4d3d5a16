package orch

import (
	"encoding/json"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
	"github.com/rs/zerolog/log"
)

// The relay never touches session state: it only resolves codes to
// connections and forwards the payload as received. Misses are dropped.

// RelayOffer forwards an audience member's offer to every admin, tagged with
// the sender's code.
func (o *Orchestrator) RelayOffer(sid core.SessionID, offer json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, ok := o.registry.Get(sid)
	if !ok {
		log.Warn().Str("module", "orch.relay").Str("sid", string(sid)).Msg("stream-offer from unregistered connection dropped")
		return
	}
	o.relayToAdmins(EventStreamOffer, "offer", offer, a.Code)
}

// RelayAnswer forwards an admin's answer to the audience member holding code.
func (o *Orchestrator) RelayAnswer(sid core.SessionID, raw string, answer json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "stream-answer") {
		return
	}
	o.relayToCode(EventStreamAnswer, "answer", answer, domain.NormalizeCode(raw))
}

// RelayCandidate forwards audience candidates to every admin and admin
// candidates to the audience member named by code.
func (o *Orchestrator) RelayCandidate(sid core.SessionID, raw string, candidate json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.channels.Role(sid) {
	case core.RoleAudience:
		if a, ok := o.registry.Get(sid); ok {
			o.relayToAdmins(EventICECandidate, "candidate", candidate, a.Code)
		}
	case core.RoleAdmin:
		o.relayToCode(EventICECandidate, "candidate", candidate, domain.NormalizeCode(raw))
	default:
		log.Warn().Str("module", "orch.relay").Str("sid", string(sid)).Msg("ice-candidate from unclassified connection dropped")
	}
}

func (o *Orchestrator) relayToAdmins(typ, field string, payload json.RawMessage, code domain.Code) {
	if len(payload) == 0 {
		log.Warn().Str("module", "orch.relay").Str("type", typ).Str("code", string(code)).Msg("empty payload dropped")
		return
	}
	f, err := relayFrame(typ, field, payload, code)
	if err != nil {
		log.Error().Err(err).Str("module", "orch.relay").Msg("relay frame")
		return
	}
	o.toAdminsFrame(f)
}

func (o *Orchestrator) relayToCode(typ, field string, payload json.RawMessage, code domain.Code) {
	if len(payload) == 0 {
		log.Warn().Str("module", "orch.relay").Str("type", typ).Str("code", string(code)).Msg("empty payload dropped")
		return
	}
	target, _, ok := o.registry.FindByCode(code)
	if !ok {
		log.Warn().Str("module", "orch.relay").Str("type", typ).Str("code", string(code)).Msg("relay target not found, dropped")
		return
	}
	f, err := relayFrame(typ, field, payload, code)
	if err != nil {
		log.Error().Err(err).Str("module", "orch.relay").Msg("relay frame")
		return
	}
	o.sendFrame(target, f)
}
