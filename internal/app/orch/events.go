package orch

import (
	"encoding/json"
	"time"

	"github.com/dkeye/spotlight/internal/domain"
)

// Outbound event types.
const (
	EventAdminRegistered      = "admin-registered"
	EventCodeAssigned         = "code-assigned"
	EventAudienceFound        = "audience-found"
	EventAudienceNotFound     = "audience-not-found"
	EventSelectionRejected    = "selection-rejected"
	EventEndStreamRejected    = "end-stream-rejected"
	EventYouSelected          = "you-selected"
	EventStreamActive         = "stream-active"
	EventStreamEnded          = "stream-ended"
	EventAudienceDisconnected = "audience-disconnected"
	EventAudienceUpdated      = "audience-updated"
	EventQuestionOpened       = "question-opened"
	EventQuestionClosed       = "question-closed"
	EventStreamOffer          = "stream-offer"
	EventStreamAnswer         = "stream-answer"
	EventICECandidate         = "ice-candidate"
	EventError                = "error"
)

// Reasons carried by stream-ended.
const (
	ReasonEndedByAdmin = "ended-by-admin"
	ReasonDisconnected = "disconnected"
	ReasonICEFailed    = "ice-failed"
	ReasonDeselected   = "deselected"
)

// Snapshot is the full session state admins render from.
// Nullable fields are pointers so "no stream" is null on the wire, never "".
type Snapshot struct {
	AudienceList         []domain.AudienceView `json:"audienceList"`
	IsStreamActive       bool                  `json:"isStreamActive"`
	CurrentStreamingCode *domain.Code          `json:"currentStreamingCode"`
	SelectedCode         *domain.Code          `json:"selectedCode"`
	IsQuestionOpen       bool                  `json:"isQuestionOpen"`
	CurrentQuestion      *string               `json:"currentQuestion"`
	QuestionOpenedAt     *time.Time            `json:"questionOpenedAt"`
	SelectionMode        string                `json:"selectionMode"`
}

type snapshotEvent struct {
	Type string `json:"type"`
	Snapshot
}

type adminRegisteredEvent struct {
	Type           string `json:"type"`
	ActiveAudience int    `json:"activeAudience"`
	Snapshot
}

type codeEvent struct {
	Type string      `json:"type"`
	Code domain.Code `json:"code"`
}

type reasonEvent struct {
	Type   string      `json:"type"`
	Code   domain.Code `json:"code"`
	Reason string      `json:"reason,omitempty"`
}

type questionEvent struct {
	Type     string `json:"type"`
	Question string `json:"question"`
}

type typeEvent struct {
	Type string `json:"type"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// relayFrame builds {"type":..,"code":..,"<field>":<raw>} with raw appended
// untouched, so signaling payloads reach the peer byte-for-byte.
func relayFrame(typ, field string, raw json.RawMessage, code domain.Code) ([]byte, error) {
	head, err := json.Marshal(struct {
		Type string      `json:"type"`
		Code domain.Code `json:"code,omitempty"`
	}{typ, code})
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(field)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(head)+len(key)+len(raw)+2)
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, key...)
	out = append(out, ':')
	out = append(out, raw...)
	out = append(out, '}')
	return out, nil
}
