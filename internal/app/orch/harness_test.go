package orch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/spotlight/internal/app"
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
)

var errFull = errors.New("buffer full")

// fakeConn records every frame queued for one connection.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	if c.full {
		return errFull
	}
	c.frames = append(c.frames, append(core.Frame(nil), f...))
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) raw() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, f := range c.raw() {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("frame is not JSON: %s", f)
		}
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) types(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, e := range c.events(t) {
		out = append(out, e["type"].(string))
	}
	return out
}

// last returns the most recent event of typ.
func (c *fakeConn) last(t *testing.T, typ string) (map[string]any, bool) {
	t.Helper()
	evs := c.events(t)
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i]["type"] == typ {
			return evs[i], true
		}
	}
	return nil, false
}

func (c *fakeConn) countType(t *testing.T, typ string) int {
	t.Helper()
	n := 0
	for _, e := range c.events(t) {
		if e["type"] == typ {
			n++
		}
	}
	return n
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type harness struct {
	t     *testing.T
	o     *Orchestrator
	conns map[core.SessionID]*fakeConn
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	return &harness{t: t, o: New(opts), conns: make(map[core.SessionID]*fakeConn)}
}

func (h *harness) connect(sid core.SessionID) *fakeConn {
	c := &fakeConn{}
	h.conns[sid] = c
	h.o.Connect(sid, c)
	return c
}

func (h *harness) admin(sid core.SessionID) *fakeConn {
	c := h.connect(sid)
	h.o.RegisterAdmin(sid)
	return c
}

func (h *harness) audience(sid core.SessionID, seat string) (*fakeConn, domain.Code) {
	h.t.Helper()
	c := h.connect(sid)
	h.o.RegisterAudience(sid, seat, domain.DeviceWeb)
	ev, ok := c.last(h.t, EventCodeAssigned)
	if !ok {
		h.t.Fatalf("%s: no code-assigned, got %v", sid, c.types(h.t))
	}
	return c, domain.Code(ev["code"].(string))
}

// checkInvariants verifies the session-wide invariants under the coordinator lock.
func checkInvariants(o *Orchestrator) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.arbiter.Current()
	streaming := 0
	codes := make(map[domain.Code]bool)
	for _, sid := range o.registry.SIDs() {
		a, _ := o.registry.Get(sid)
		if codes[a.Code] {
			return fmt.Errorf("duplicate live code %s", a.Code)
		}
		codes[a.Code] = true
		if a.Streaming {
			streaming++
			if !cur.Active() || cur.SID != sid || cur.Code != a.Code {
				return fmt.Errorf("record %s streaming but arbiter is %+v", a.Code, cur)
			}
		}
	}
	if cur.Active() && streaming != 1 {
		return fmt.Errorf("stream active for %s but %d records streaming", cur.Code, streaming)
	}
	if !cur.Active() && streaming != 0 {
		return fmt.Errorf("no active stream but %d records streaming", streaming)
	}
	if cur.Phase != app.PhaseIdle {
		if _, ok := o.registry.Get(cur.SID); !ok {
			return fmt.Errorf("arbiter holds %s which has no record", cur.SID)
		}
	}
	snap := o.snapshot()
	if snap.IsStreamActive != (snap.CurrentStreamingCode != nil) {
		return fmt.Errorf("isStreamActive=%v but currentStreamingCode=%v", snap.IsStreamActive, snap.CurrentStreamingCode)
	}
	if snap.IsQuestionOpen != (snap.CurrentQuestion != nil) || snap.IsQuestionOpen != (snap.QuestionOpenedAt != nil) {
		return fmt.Errorf("isQuestionOpen=%v but currentQuestion=%v", snap.IsQuestionOpen, snap.CurrentQuestion)
	}
	return nil
}

func (h *harness) mustHold() {
	h.t.Helper()
	if err := checkInvariants(h.o); err != nil {
		h.t.Fatalf("invariant violated: %v", err)
	}
}
