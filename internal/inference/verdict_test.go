package inference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veritas-labs/veritas/internal/model"
)

func TestFromLogit(t *testing.T) {
	v := FromLogit(0)
	assert.Equal(t, model.Fake, v.Prediction, "p == 0.5 counts as fake")
	assert.InDelta(t, 0.5, v.Confidence, 1e-12)

	v = FromLogit(-2)
	assert.Equal(t, model.Real, v.Prediction)
	assert.InDelta(t, 1-Sigmoid(-2), v.Confidence, 1e-12)
	assert.InDelta(t, Sigmoid(-2), v.ProbabilityFake, 1e-12)

	v = FromLogit(3)
	assert.Equal(t, model.Fake, v.Prediction)
	assert.InDelta(t, Sigmoid(3), v.Confidence, 1e-12)
}

func TestVerdictStrings(t *testing.T) {
	v := Verdict{Prediction: model.Fake, ProbabilityFake: 0.97123, Confidence: 0.97123}
	assert.Equal(t, "97.12%", v.ConfidenceString())
	assert.Equal(t, "0.9712", v.ProbabilityString())

	v = FromLogit(math.Inf(-1))
	assert.Equal(t, "100.00%", v.ConfidenceString())
	assert.Equal(t, "0.0000", v.ProbabilityString())
}
