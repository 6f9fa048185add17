package inference

import (
	"fmt"
)

// ImageClassifier scores a single [1,3,S,S] face tensor.
type ImageClassifier struct {
	session *Session
	size    int
}

func NewImageClassifier(modelPath string, size, threads int) (*ImageClassifier, error) {
	sess, err := NewSession(modelPath, threads)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}
	return &ImageClassifier{session: sess, size: size}, nil
}

// Logit returns the raw fake logit for one face.
func (c *ImageClassifier) Logit(face []float32) (float64, error) {
	s := int64(c.size)
	if len(face) != int(3*s*s) {
		return 0, fmt.Errorf("image classifier: face tensor has %d values, want %d", len(face), 3*s*s)
	}
	out, _, err := c.session.Run(face, 1, 3, s, s)
	if err != nil {
		return 0, fmt.Errorf("image classifier: %w", err)
	}
	return firstLogit(out)
}

func (c *ImageClassifier) Close() error {
	return c.session.Close()
}

// VideoClassifier scores a [1,T,3,S,S] sequence of face tensors with the
// temporal head.
type VideoClassifier struct {
	session *Session
	size    int
}

func NewVideoClassifier(modelPath string, size, threads int) (*VideoClassifier, error) {
	sess, err := NewSession(modelPath, threads)
	if err != nil {
		return nil, fmt.Errorf("video classifier: %w", err)
	}
	return &VideoClassifier{session: sess, size: size}, nil
}

// Logit returns the raw fake logit for a sequence of faces.
func (c *VideoClassifier) Logit(frames [][]float32) (float64, error) {
	if len(frames) == 0 {
		return 0, fmt.Errorf("video classifier: no frames")
	}
	s := int64(c.size)
	per := int(3 * s * s)
	input := make([]float32, 0, per*len(frames))
	for i, f := range frames {
		if len(f) != per {
			return 0, fmt.Errorf("video classifier: frame %d has %d values, want %d", i, len(f), per)
		}
		input = append(input, f...)
	}
	out, _, err := c.session.Run(input, 1, int64(len(frames)), 3, s, s)
	if err != nil {
		return 0, fmt.Errorf("video classifier: %w", err)
	}
	return firstLogit(out)
}

func (c *VideoClassifier) Close() error {
	return c.session.Close()
}

func firstLogit(out []float32) (float64, error) {
	if len(out) == 0 {
		return 0, fmt.Errorf("empty model output")
	}
	return float64(out[0]), nil
}
