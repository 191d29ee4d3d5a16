package orch

import (
	"encoding/json"

	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/rs/zerolog/log"
)

// All dispatch helpers run with o.mu held. TrySend never blocks, so each
// connection's queue receives events in the order they were produced.

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch.broadcast").Msg("marshal event")
		return nil, false
	}
	return b, true
}

func (o *Orchestrator) send(sid core.SessionID, v any) {
	if f, ok := encode(v); ok {
		o.sendFrame(sid, f)
	}
}

func (o *Orchestrator) sendFrame(sid core.SessionID, f core.Frame) {
	conn, ok := o.channels.Conn(sid)
	if !ok {
		return
	}
	if err := conn.TrySend(f); err != nil {
		o.onSendError(sid, conn, err)
	}
}

func (o *Orchestrator) toAdmins(v any) {
	if f, ok := encode(v); ok {
		o.toAdminsFrame(f)
	}
}

func (o *Orchestrator) toAdminsFrame(f core.Frame) {
	for _, sid := range o.channels.Admins() {
		o.sendFrame(sid, f)
	}
}

// toAudience reaches every connection with a live audience record.
func (o *Orchestrator) toAudience(v any) {
	f, ok := encode(v)
	if !ok {
		return
	}
	for _, sid := range o.registry.SIDs() {
		o.sendFrame(sid, f)
	}
}

func (o *Orchestrator) broadcastSnapshot() {
	o.toAdmins(snapshotEvent{Type: EventAudienceUpdated, Snapshot: o.snapshot()})
}

func (o *Orchestrator) onSendError(sid core.SessionID, conn core.SignalConnection, err error) {
	role := o.channels.Role(sid)
	action := o.policy.OnBackPressure(sid, role)
	log.Warn().
		Err(err).
		Str("module", "orch.broadcast").
		Str("sid", string(sid)).
		Str("role", role.String()).
		Int("action", int(action)).
		Msg("send failed")
	if action == app.KickMember {
		// The read loop sees the closed socket and calls Disconnect.
		conn.Close()
	}
}
