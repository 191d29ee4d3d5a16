package signal

import (
	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleRegisterAudience(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		SeatNumber string `json:"seatNumber"`
		DeviceType string `json:"deviceType"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.registers.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("register-audience rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	ctl.Orch.RegisterAudience(sid, p.SeatNumber, domain.ParseDeviceType(p.DeviceType))
}

// handleRaiseHand tells the member when a raise is throttled so the client
// can roll back its hand state.
func (ctl *SignalWSController) handleRaiseHand(sid core.SessionID, conn *WsSignalConn) {
	if !ctl.hands.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("raise-hand rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	ctl.Orch.RaiseHand(sid)
}
