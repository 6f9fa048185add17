package factcheck

import (
	"strings"

	"github.com/veritas-labs/veritas/internal/model"
)

const (
	maxRawReasonChars = 200
	maxErrorChars     = 100
)

// ParseVerdict reads the VERDICT/REASON lines out of a model response.
// Output that does not carry a usable verdict degrades to UNVERIFIED.
func ParseVerdict(raw string) model.InformationResponse {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	verdictLine := firstLineContaining(lines, "VERDICT:")
	reasonLine := firstLineContaining(lines, "REASON:")

	classification := model.Unverified
	var valid = true
	if _, value, ok := strings.Cut(verdictLine, ":"); ok {
		classification, valid = model.ParseClassification(value)
	}

	reason := truncateRunes(raw, maxRawReasonChars)
	if _, value, ok := strings.Cut(reasonLine, ":"); ok {
		reason = strings.TrimSpace(value)
	}

	if !valid {
		return model.InformationResponse{
			Classification: model.Unverified,
			Reason:         "Unable to verify: " + reason,
		}
	}
	return model.InformationResponse{Classification: classification, Reason: reason}
}

// ErrorResponse is returned when retrieval or generation fails.
func ErrorResponse(err error) model.InformationResponse {
	return model.InformationResponse{
		Classification: model.Error,
		Reason:         "Processing error: " + truncateRunes(err.Error(), maxErrorChars),
	}
}

func firstLineContaining(lines []string, marker string) string {
	for _, l := range lines {
		if strings.Contains(strings.ToUpper(l), marker) {
			return l
		}
	}
	return ""
}
