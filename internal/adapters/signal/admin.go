package signal

import (
	"github.com/dkeye/spotlight/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleRegisterAdmin(sid core.SessionID, conn *WsSignalConn) {
	if !conn.canAdmin {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("register-admin without admin session")
		ctl.sendError(conn, "unauthorized")
		return
	}
	ctl.Orch.RegisterAdmin(sid)
}

type codePayload struct {
	Code string `json:"code"`
}

func (ctl *SignalWSController) handleSelectCode(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p codePayload
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.SelectCode(sid, p.Code)
}

func (ctl *SignalWSController) handleEndStream(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p codePayload
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.EndStream(sid, p.Code)
}

func (ctl *SignalWSController) handleOpenQuestion(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Question string `json:"question"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.OpenQuestion(sid, p.Question)
}
