package app

import (
	"fmt"
	"sort"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry is the single source of truth for audience state: an arena of
// records keyed by session id, with a code index for lookups.
// It has no lock of its own; the Orchestrator owns it and serializes access.
type Registry struct {
	codes  *CodeGenerator
	bySID  map[core.SessionID]*domain.Audience
	byCode map[domain.Code]core.SessionID
}

func NewRegistry(codes *CodeGenerator) *Registry {
	return &Registry{
		codes:  codes,
		bySID:  make(map[core.SessionID]*domain.Audience),
		byCode: make(map[domain.Code]core.SessionID),
	}
}

// Register assigns a fresh code to sid. A sid that is already registered keeps
// its record and code.
func (r *Registry) Register(sid core.SessionID, seat string, device domain.DeviceType) (*domain.Audience, error) {
	if a, ok := r.bySID[sid]; ok {
		return a, nil
	}
	code, err := r.codes.Issue()
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", sid, err)
	}
	a := domain.NewAudience(code, seat, device)
	r.bySID[sid] = a
	r.byCode[code] = sid
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("code", string(code)).Str("seat", a.SeatNumber).Msg("registered audience")
	return a, nil
}

func (r *Registry) Get(sid core.SessionID) (*domain.Audience, bool) {
	a, ok := r.bySID[sid]
	return a, ok
}

func (r *Registry) FindByCode(code domain.Code) (core.SessionID, *domain.Audience, bool) {
	sid, ok := r.byCode[code]
	if !ok {
		return "", nil, false
	}
	return sid, r.bySID[sid], true
}

// Remove destroys the record of sid and retires its code.
func (r *Registry) Remove(sid core.SessionID) (*domain.Audience, bool) {
	a, ok := r.bySID[sid]
	if !ok {
		return nil, false
	}
	delete(r.bySID, sid)
	delete(r.byCode, a.Code)
	r.codes.Retire(a.Code)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("code", string(a.Code)).Msg("removed audience")
	return a, true
}

func (r *Registry) Len() int { return len(r.bySID) }

// ResetHands lowers every raised hand.
func (r *Registry) ResetHands() {
	for _, a := range r.bySID {
		a.HandRaised = false
	}
}

// SIDs lists every registered session.
func (r *Registry) SIDs() []core.SessionID {
	out := make([]core.SessionID, 0, len(r.bySID))
	for sid := range r.bySID {
		out = append(out, sid)
	}
	return out
}

// Snapshot returns views ordered by seat (Unknown last), then code.
func (r *Registry) Snapshot() []domain.AudienceView {
	out := make([]domain.AudienceView, 0, len(r.bySID))
	for _, a := range r.bySID {
		out = append(out, a.View())
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].SeatNumber, out[j].SeatNumber
		if si != sj {
			if si == domain.UnknownSeat {
				return false
			}
			if sj == domain.UnknownSeat {
				return true
			}
			return si < sj
		}
		return out[i].Code < out[j].Code
	})
	return out
}
