package model

import "strings"

// Classification is the closed set of labels the API can return.
type Classification string

const (
	Real       Classification = "REAL"
	Fake       Classification = "FAKE"
	Unverified Classification = "UNVERIFIED"
	Error      Classification = "ERROR"
)

func (c Classification) Valid() bool {
	switch c {
	case Real, Fake, Unverified, Error:
		return true
	default:
		return false
	}
}

// IsVerdict reports whether c is a label a language model may return.
// ERROR is produced by the service itself, never parsed from model output.
func (c Classification) IsVerdict() bool {
	return c == Real || c == Fake || c == Unverified
}

// ParseClassification upper-cases and trims raw. The bool is false when the
// result is not a model verdict.
func ParseClassification(raw string) (Classification, bool) {
	c := Classification(strings.ToUpper(strings.TrimSpace(raw)))
	return c, c.IsVerdict()
}
