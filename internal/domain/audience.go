package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	UnknownSeat    = "Unknown"
	MaxSeatLen     = 32
	MaxQuestionLen = 280
)

type DeviceType string

const (
	DeviceWeb     DeviceType = "web"
	DeviceIOS     DeviceType = "ios"
	DeviceAndroid DeviceType = "android"
	DeviceUnknown DeviceType = "unknown"
)

// ParseDeviceType maps client-reported device strings. An empty value is web,
// anything else unrecognised is unknown.
func ParseDeviceType(raw string) DeviceType {
	switch DeviceType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DeviceWeb:
		return DeviceWeb
	case DeviceIOS:
		return DeviceIOS
	case DeviceAndroid:
		return DeviceAndroid
	default:
		return DeviceUnknown
	}
}

// Audience is one registered audience connection.
type Audience struct {
	Code       Code
	Streaming  bool
	HandRaised bool
	SeatNumber string
	DeviceType DeviceType
	JoinedAt   time.Time
}

// NewAudience normalises the seat.
func NewAudience(code Code, seat string, device DeviceType) *Audience {
	return &Audience{
		Code:       code,
		SeatNumber: NormalizeSeat(seat),
		DeviceType: device,
		JoinedAt:   time.Now(),
	}
}

func NormalizeSeat(raw string) string {
	seat := strings.TrimSpace(raw)
	if seat == "" {
		return UnknownSeat
	}
	return truncate(seat, MaxSeatLen)
}

func NormalizeQuestion(raw string) string {
	return truncate(strings.TrimSpace(raw), MaxQuestionLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// AudienceView is the read-only shape sent to admins (no transport fields).
type AudienceView struct {
	Code       Code       `json:"code"`
	Streaming  bool       `json:"streaming"`
	HandRaised bool       `json:"handRaised"`
	SeatNumber string     `json:"seatNumber"`
	DeviceType DeviceType `json:"deviceType"`
	JoinedAt   time.Time  `json:"joinedAt"`
}

func (a *Audience) View() AudienceView {
	return AudienceView{
		Code:       a.Code,
		Streaming:  a.Streaming,
		HandRaised: a.HandRaised,
		SeatNumber: a.SeatNumber,
		DeviceType: a.DeviceType,
		JoinedAt:   a.JoinedAt,
	}
}
