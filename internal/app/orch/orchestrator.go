// Package orch is the session coordinator. Every inbound message and every
// disconnect goes through one mutex: mutate, notify, unlock. Nothing else
// touches Registry, Channels, Arbiter or QuestionBoard.
package orch

import (
	"sync"

	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/journal"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Codes     *app.CodeGenerator
	Selection app.SelectionPolicy
	Policy    app.Policy
	Journal   journal.Recorder
}

type Orchestrator struct {
	mu sync.Mutex

	codes     *app.CodeGenerator
	registry  *app.Registry
	channels  *app.Channels
	arbiter   *app.Arbiter
	questions *app.QuestionBoard

	selection app.SelectionPolicy
	policy    app.Policy
	journal   journal.Recorder
}

func New(opts Options) *Orchestrator {
	if opts.Codes == nil {
		opts.Codes = app.NewCodeGenerator()
	}
	if opts.Selection == nil {
		opts.Selection = app.HandRaisePolicy{}
	}
	if opts.Policy == nil {
		opts.Policy = app.SimplePolicy{}
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	return &Orchestrator{
		codes:     opts.Codes,
		registry:  app.NewRegistry(opts.Codes),
		channels:  app.NewChannels(),
		arbiter:   app.NewArbiter(),
		questions: app.NewQuestionBoard(),
		selection: opts.Selection,
		policy:    opts.Policy,
		journal:   opts.Journal,
	}
}

// Connect makes sid reachable for replies and broadcasts. It is unclassified
// until it registers.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.channels.Attach(sid, conn)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("connected")
}

// Disconnect is a state transition, not an error: a streaming or selected
// member leaving goes through the same end-of-stream path as end-stream.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	role, ok := o.channels.Detach(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("role", role.String()).Msg("disconnected")
	if role != core.RoleAudience {
		return
	}

	if o.arbiter.Holds(sid) {
		o.endStream(ReasonDisconnected)
	}
	a, ok := o.registry.Remove(sid)
	if !ok {
		return
	}
	o.journal.Record(journal.Entry{Kind: journal.KindCodeRetired, Code: string(a.Code)})
	o.toAdmins(codeEvent{Type: EventAudienceDisconnected, Code: a.Code})
	o.broadcastSnapshot()
}

// State returns the current snapshot.
func (o *Orchestrator) State() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

// Stats reports connection and code counters for the status endpoint.
type Stats struct {
	Connections  int `json:"connections"`
	Admins       int `json:"admins"`
	Audience     int `json:"audience"`
	LiveCodes    int `json:"liveCodes"`
	RetiredCodes int `json:"retiredCodes"`
	CodeCapacity int `json:"codeCapacity"`
}

func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := Stats{
		Connections: o.channels.Len(),
		Admins:      len(o.channels.Admins()),
		Audience:    o.registry.Len(),
	}
	s.LiveCodes, s.RetiredCodes, s.CodeCapacity = o.codes.Stats()
	return s
}

func (o *Orchestrator) snapshot() Snapshot {
	cur := o.arbiter.Current()
	s := Snapshot{
		AudienceList:   o.registry.Snapshot(),
		IsStreamActive: cur.Active(),
		SelectionMode:  o.selection.Name(),
	}
	switch cur.Phase {
	case app.PhaseStreaming:
		code := cur.Code
		s.CurrentStreamingCode = &code
	case app.PhaseSelected:
		code := cur.Code
		s.SelectedCode = &code
	}
	if q := o.questions.Current(); q != nil {
		s.IsQuestionOpen = true
		text, at := q.Text, q.OpenedAt
		s.CurrentQuestion = &text
		s.QuestionOpenedAt = &at
	}
	return s
}

// requireRole logs and reports false for messages sent by the wrong role.
func (o *Orchestrator) requireRole(sid core.SessionID, want core.Role, op string) bool {
	if got := o.channels.Role(sid); got != want {
		log.Warn().
			Str("module", "orch").
			Str("sid", string(sid)).
			Str("op", op).
			Str("role", got.String()).
			Msg("message from wrong role ignored")
		return false
	}
	return true
}
