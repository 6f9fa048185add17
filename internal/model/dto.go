package model

// InformationRequest is the body of POST /predict-news.
type InformationRequest struct {
	Text string `json:"text"`
}

type InformationResponse struct {
	Classification Classification `json:"classification"`
	Reason         string         `json:"reason"`
}

type ImagePrediction struct {
	Prediction  Classification `json:"prediction"`
	Confidence  string         `json:"confidence"`  // e.g. "97.12%"
	Probability string         `json:"probability"` // fake probability, 4 decimals
}

type VideoPrediction struct {
	Prediction      Classification `json:"prediction"`
	Confidence      string         `json:"confidence"`
	ProbabilityFake string         `json:"probability_fake"`
	FramesProcessed int            `json:"frames_processed"`
}
