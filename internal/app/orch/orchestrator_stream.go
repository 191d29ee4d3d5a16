package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
	"github.com/dkeye/spotlight/internal/journal"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// SelectCode runs the Idle/Selected -> Selected transition. The stream-active
// check and the state change happen under the same lock, so two admins
// racing during a live stream are both rejected.
func (o *Orchestrator) SelectCode(sid core.SessionID, raw string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "select-code") {
		return
	}
	code := domain.NormalizeCode(raw)
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("code", string(code)).Logger()

	if cur := o.arbiter.Current(); cur.Active() {
		logger.Info().Str("streaming", string(cur.Code)).Msg("selection rejected: stream active")
		o.send(sid, reasonEvent{
			Type:   EventSelectionRejected,
			Code:   code,
			Reason: fmt.Sprintf("%s is streaming; end that stream first", cur.Code),
		})
		return
	}

	target, a, ok := o.registry.FindByCode(code)
	if !ok {
		logger.Info().Msg("no audience member with code")
		o.send(sid, codeEvent{Type: EventAudienceNotFound, Code: code})
		return
	}
	if err := o.selection.Eligible(o.questions.Current(), a); err != nil {
		logger.Info().Err(err).Msg("selection rejected: not eligible")
		o.send(sid, reasonEvent{Type: EventSelectionRejected, Code: code, Reason: rejectReason(err)})
		return
	}

	prev, err := o.arbiter.Select(target, code)
	if err != nil {
		logger.Info().Err(err).Msg("selection rejected")
		o.send(sid, reasonEvent{Type: EventSelectionRejected, Code: code, Reason: rejectReason(err)})
		return
	}
	if prev.Phase == app.PhaseSelected {
		logger.Info().Str("replaced", string(prev.Code)).Msg("pending selection replaced")
		o.send(prev.SID, reasonEvent{Type: EventStreamEnded, Code: prev.Code, Reason: ReasonDeselected})
	}

	o.journal.Record(journal.Entry{Kind: journal.KindSelected, Code: string(code), Detail: string(sid)})
	logger.Info().Msg("audience member selected")
	o.send(target, codeEvent{Type: EventYouSelected, Code: code})
	o.send(sid, codeEvent{Type: EventAudienceFound, Code: code})
	o.broadcastSnapshot()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, app.ErrNoOpenQuestion):
		return "open a question before selecting"
	case errors.Is(err, app.ErrHandNotRaised):
		return "this audience member has not raised a hand"
	case errors.Is(err, app.ErrAlreadySelected):
		return "this code is already selected"
	case errors.Is(err, app.ErrStreamActive):
		return "a stream is already active"
	default:
		return err.Error()
	}
}

// StreamStarted is the selected member confirming local media is ready.
func (o *Orchestrator) StreamStarted(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAudience, "stream-started") {
		return
	}
	code, err := o.arbiter.Start(sid)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("stream-started ignored")
		return
	}
	if a, ok := o.registry.Get(sid); ok {
		a.Streaming = true
	}
	o.journal.Record(journal.Entry{Kind: journal.KindStreamStarted, Code: string(code)})
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("code", string(code)).Msg("stream active")
	o.toAdmins(codeEvent{Type: EventStreamActive, Code: code})
	o.broadcastSnapshot()
}

// EndStream is the admin ending the current stream or pending selection.
// An empty code means "whatever is current".
func (o *Orchestrator) EndStream(sid core.SessionID, raw string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.requireRole(sid, core.RoleAdmin, "end-stream") {
		return
	}
	code := domain.NormalizeCode(raw)
	cur := o.arbiter.Current()
	reason := ""
	switch {
	case cur.Phase == app.PhaseIdle:
		reason = "nothing is selected or streaming"
	case code != "" && code != cur.Code:
		reason = fmt.Sprintf("%s is not the current stream", code)
	}
	if reason != "" {
		log.Warn().
			Str("module", "orch").
			Str("sid", string(sid)).
			Str("code", string(code)).
			Str("current", string(cur.Code)).
			Msg("end-stream rejected")
		o.send(sid, reasonEvent{Type: EventEndStreamRejected, Code: code, Reason: reason})
		return
	}
	o.endStream(ReasonEndedByAdmin)
	o.broadcastSnapshot()
}

// ReportConnectionState receives a client's ICE connection state. failed or
// closed on the current stream ends it.
func (o *Orchestrator) ReportConnectionState(sid core.SessionID, state string, raw string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := webrtc.NewICEConnectionState(state)
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("ice_state", st.String()).Logger()
	if st != webrtc.ICEConnectionStateFailed && st != webrtc.ICEConnectionStateClosed {
		logger.Debug().Msg("ice state reported")
		return
	}

	cur := o.arbiter.Current()
	if cur.Phase == app.PhaseIdle {
		return
	}
	switch o.channels.Role(sid) {
	case core.RoleAudience:
		if cur.SID != sid {
			return
		}
	case core.RoleAdmin:
		if code := domain.NormalizeCode(raw); code != "" && code != cur.Code {
			return
		}
	default:
		return
	}
	logger.Info().Str("code", string(cur.Code)).Msg("peer connection failed, ending stream")
	o.endStream(ReasonICEFailed)
	o.broadcastSnapshot()
}

// endStream is the single path back to Idle for end-stream, disconnect and ICE
// failure. It clears the record flag and the arbiter together and notifies the
// member (if still connected) and admins. The caller broadcasts the snapshot.
func (o *Orchestrator) endStream(reason string) bool {
	prev := o.arbiter.Clear()
	if prev.Phase == app.PhaseIdle {
		return false
	}
	if a, ok := o.registry.Get(prev.SID); ok {
		a.Streaming = false
	}
	ev := reasonEvent{Type: EventStreamEnded, Code: prev.Code, Reason: reason}
	o.send(prev.SID, ev)
	o.toAdmins(ev)
	o.journal.Record(journal.Entry{Kind: journal.KindStreamEnded, Code: string(prev.Code), Detail: reason})
	log.Info().
		Str("module", "orch").
		Str("code", string(prev.Code)).
		Str("phase", prev.Phase.String()).
		Str("reason", reason).
		Msg("stream ended")
	return true
}
