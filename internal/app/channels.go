package app

import (
	"sort"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/rs/zerolog/log"
)

type channel struct {
	role core.Role
	conn core.SignalConnection
}

// Channels classifies every live connection and keeps its outbound endpoint.
// Guarded by the Orchestrator like Registry.
type Channels struct {
	bySID map[core.SessionID]*channel
}

func NewChannels() *Channels {
	return &Channels{bySID: make(map[core.SessionID]*channel)}
}

func (c *Channels) Attach(sid core.SessionID, conn core.SignalConnection) {
	c.bySID[sid] = &channel{role: core.RoleUnclassified, conn: conn}
	log.Debug().Str("module", "app.channels").Str("sid", string(sid)).Msg("attached")
}

// Detach forgets sid and reports the role it had.
func (c *Channels) Detach(sid core.SessionID) (core.Role, bool) {
	ch, ok := c.bySID[sid]
	if !ok {
		return core.RoleUnclassified, false
	}
	delete(c.bySID, sid)
	return ch.role, true
}

// Classify sets the role once. Re-classifying to the same role is allowed;
// switching Admin <-> Audience is not.
func (c *Channels) Classify(sid core.SessionID, role core.Role) bool {
	ch, ok := c.bySID[sid]
	if !ok {
		return false
	}
	if ch.role != core.RoleUnclassified && ch.role != role {
		return false
	}
	ch.role = role
	return true
}

func (c *Channels) Role(sid core.SessionID) core.Role {
	if ch, ok := c.bySID[sid]; ok {
		return ch.role
	}
	return core.RoleUnclassified
}

func (c *Channels) Conn(sid core.SessionID) (core.SignalConnection, bool) {
	ch, ok := c.bySID[sid]
	if !ok {
		return nil, false
	}
	return ch.conn, true
}

// Admins returns admin session ids in a stable order.
func (c *Channels) Admins() []core.SessionID {
	out := make([]core.SessionID, 0, 4)
	for sid, ch := range c.bySID {
		if ch.role == core.RoleAdmin {
			out = append(out, sid)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Channels) Len() int { return len(c.bySID) }
