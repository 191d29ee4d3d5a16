// Package domain holds the session's value types and their normalisers.
package domain

import "strings"

// CodeAlphabet drops the characters that read alike on a projector (I/1, O/0).
const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4
)

// Code is the short identifier shown on an audience member's screen.
type Code string

// NormalizeCode upper-cases and trims admin input so "ab2c " matches "AB2C".
func NormalizeCode(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}
