package inference

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/veritas-labs/veritas/internal/model"
)

// Threshold on the fake probability at and above which media is FAKE.
const fakeThreshold = 0.5

// Verdict is the post-processed classifier output.
type Verdict struct {
	Prediction      model.Classification
	ProbabilityFake float64
	Confidence      float64
}

func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// FromLogit maps a raw single-logit output to a REAL/FAKE verdict.
func FromLogit(logit float64) Verdict {
	p := Sigmoid(logit)
	if p >= fakeThreshold {
		return Verdict{Prediction: model.Fake, ProbabilityFake: p, Confidence: p}
	}
	return Verdict{Prediction: model.Real, ProbabilityFake: p, Confidence: 1 - p}
}

// ConfidenceString renders confidence as a percentage, e.g. "97.12%".
func (v Verdict) ConfidenceString() string {
	return decimal.NewFromFloat(v.Confidence).Shift(2).StringFixed(2) + "%"
}

// ProbabilityString renders the fake probability with four decimals.
func (v Verdict) ProbabilityString() string {
	return decimal.NewFromFloat(v.ProbabilityFake).StringFixed(4)
}
