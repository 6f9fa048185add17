package inference

import (
	"fmt"
	"image"
	"sort"

	"github.com/veritas-labs/veritas/internal/media"
	"github.com/veritas-labs/veritas/internal/model"
)

const (
	detectorInputSize = 640
	// Overlapping candidates above this IoU are collapsed to the best score.
	nmsIoU = 0.7
)

// FaceDetector runs a YOLOv8-face graph. The graph takes a letterboxed
// [1,3,640,640] RGB tensor in [0,1] and returns [1,C,N] where rows 0..4 are
// cx, cy, w, h, score.
type FaceDetector struct {
	session   *Session
	threshold float64
}

func NewFaceDetector(modelPath string, threshold float64, threads int) (*FaceDetector, error) {
	sess, err := NewSession(modelPath, threads)
	if err != nil {
		return nil, fmt.Errorf("face detector: %w", err)
	}
	return &FaceDetector{session: sess, threshold: threshold}, nil
}

func (d *FaceDetector) Detect(img image.Image) ([]model.Box, error) {
	boxed, lb := media.LetterboxResize(img, detectorInputSize)
	input := toUnitTensor(boxed)

	out, shape, err := d.session.Run(input, 1, 3, detectorInputSize, detectorInputSize)
	if err != nil {
		return nil, fmt.Errorf("face detector: %w", err)
	}
	return decodeDetections(out, shape, d.threshold, lb)
}

func (d *FaceDetector) Close() error {
	return d.session.Close()
}

// decodeDetections turns a [1,C,N] YOLO head into boxes in source pixels,
// keeping only the boxes that survive non-maximum suppression.
func decodeDetections(out []float32, shape []int64, threshold float64, lb media.Letterbox) ([]model.Box, error) {
	if len(shape) != 3 || shape[1] < 5 {
		return nil, fmt.Errorf("face detector: unexpected output shape %v", shape)
	}
	rows, n := int(shape[1]), int(shape[2])
	if len(out) < rows*n {
		return nil, fmt.Errorf("face detector: output has %d values, want %d", len(out), rows*n)
	}

	var boxes []model.Box
	for i := 0; i < n; i++ {
		score := float64(out[4*n+i])
		if score < threshold {
			continue
		}
		cx, cy := float64(out[i]), float64(out[n+i])
		w, h := float64(out[2*n+i]), float64(out[3*n+i])
		x1, y1 := lb.ToSource(cx-w/2, cy-h/2)
		x2, y2 := lb.ToSource(cx+w/2, cy+h/2)
		boxes = append(boxes, model.Box{X1: x1, Y1: y1, X2: x2, Y2: y2, Score: score})
	}
	return suppress(boxes, nmsIoU), nil
}

// suppress is greedy NMS: boxes are visited by descending score and dropped
// when they overlap an already kept box by more than iouThreshold.
func suppress(boxes []model.Box, iouThreshold float64) []model.Box {
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Score > boxes[j].Score })
	kept := make([]model.Box, 0, len(boxes))
	for _, b := range boxes {
		overlaps := false
		for _, k := range kept {
			if iou(b, k) > iouThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, b)
		}
	}
	return kept
}

func iou(a, b model.Box) float64 {
	w := min(a.X2, b.X2) - max(a.X1, b.X1)
	h := min(a.Y2, b.Y2) - max(a.Y1, b.Y1)
	if w <= 0 || h <= 0 {
		return 0
	}
	inter := w * h
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// toUnitTensor converts an RGBA image to CHW float32 in [0, 1].
func toUnitTensor(img *image.RGBA) []float32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	plane := w * h
	out := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4:]
			i := y*w + x
			out[i] = float32(p[0]) / 255
			out[plane+i] = float32(p[1]) / 255
			out[2*plane+i] = float32(p[2]) / 255
		}
	}
	return out
}
