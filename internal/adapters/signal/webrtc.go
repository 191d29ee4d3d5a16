package signal

import (
	"encoding/json"

	"github.com/dkeye/spotlight/internal/core"
)

// Offers, answers and candidates stay json.RawMessage all the way to the
// peer's socket.

func (ctl *SignalWSController) handleOffer(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Offer json.RawMessage `json:"offer"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.RelayOffer(sid, p.Offer)
}

func (ctl *SignalWSController) handleAnswer(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Code   string          `json:"code"`
		Answer json.RawMessage `json:"answer"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.RelayAnswer(sid, p.Code, p.Answer)
}

func (ctl *SignalWSController) handleCandidate(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Code      string          `json:"code"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.RelayCandidate(sid, p.Code, p.Candidate)
}

func (ctl *SignalWSController) handleConnectionState(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	if !decode(sid, data, &p) {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.ReportConnectionState(sid, p.State, p.Code)
}
