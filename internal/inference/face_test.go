package inference

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-labs/veritas/internal/media"
	"github.com/veritas-labs/veritas/internal/model"
)

type stubDetector struct {
	boxes []model.Box
	err   error
}

func (d stubDetector) Detect(image.Image) ([]model.Box, error) {
	return d.boxes, d.err
}

// twoTone is black on the left half and white on the right half.
func twoTone(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x >= w/2 {
				v = 255
			}
			off := y*img.Stride + x*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = v, v, v, 255
		}
	}
	return img
}

func TestExtractFacePicksLargestBox(t *testing.T) {
	img := twoTone(100, 100)
	det := stubDetector{boxes: []model.Box{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.9},    // small, black
		{X1: 60, Y1: 10, X2: 100, Y2: 90, Score: 0.6}, // large, white
	}}

	face := ExtractFace(img, 8, det)
	require.Len(t, face, 3*8*8)
	for _, v := range face {
		assert.InDelta(t, 1.0, v, 1e-6)
	}
}

func TestExtractFaceClampsToBounds(t *testing.T) {
	img := twoTone(100, 100)
	det := stubDetector{boxes: []model.Box{{X1: -20, Y1: -20, X2: 30, Y2: 150}}}

	face := ExtractFace(img, 4, det)
	for _, v := range face {
		assert.InDelta(t, -1.0, v, 1e-6)
	}
}

func TestExtractFaceFallsBackToWholeFrame(t *testing.T) {
	img := twoTone(100, 100)
	cases := map[string]Detector{
		"no boxes":   stubDetector{},
		"error":      stubDetector{err: errors.New("boom")},
		"empty crop": stubDetector{boxes: []model.Box{{X1: 120, Y1: 120, X2: 130, Y2: 130}}},
		"nil":        nil,
	}
	for name, det := range cases {
		t.Run(name, func(t *testing.T) {
			face := ExtractFace(img, 10, det)
			require.Len(t, face, 300)
			// whole frame keeps both halves
			assert.InDelta(t, -1.0, face[0], 1e-6)
			assert.InDelta(t, 1.0, face[9], 1e-6)
		})
	}
}

func TestDecodeDetections(t *testing.T) {
	// two candidates, N=2, rows cx,cy,w,h,score
	out := []float32{
		320, 100,
		100, 100,
		64, 20,
		128, 20,
		0.9, 0.3,
	}
	lb := media.Letterbox{Scale: 2, PadY: 80}
	boxes, err := decodeDetections(out, []int64{1, 5, 2}, 0.5, lb)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, model.Box{X1: 144, Y1: -22, X2: 176, Y2: 42, Score: float64(float32(0.9))}, boxes[0])

	_, err = decodeDetections(out, []int64{1, 4, 2}, 0.5, lb)
	assert.Error(t, err)
}

func TestDecodeDetectionsSuppressesDuplicates(t *testing.T) {
	// a tight face, a looser duplicate around it (IoU ~0.73) and a second face
	out := []float32{
		320, 320, 100,
		320, 320, 500,
		100, 117, 40,
		100, 117, 40,
		0.95, 0.55, 0.6,
	}
	boxes, err := decodeDetections(out, []int64{1, 5, 3}, 0.5, media.Letterbox{Scale: 1})
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	assert.InDelta(t, 0.95, boxes[0].Score, 1e-6)
	assert.Equal(t, 270.0, boxes[0].X1)
	assert.Equal(t, 370.0, boxes[0].X2)
	assert.InDelta(t, 0.6, boxes[1].Score, 1e-6)
	assert.Equal(t, 80.0, boxes[1].X1)
}

func TestSuppressKeepsDisjointBoxes(t *testing.T) {
	boxes := []model.Box{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.5},
		{X1: 20, Y1: 20, X2: 30, Y2: 30, Score: 0.9},
		{X1: 1, Y1: 1, X2: 10, Y2: 10, Score: 0.7},
	}
	kept := suppress(boxes, nmsIoU)
	require.Len(t, kept, 2)
	assert.Equal(t, 0.9, kept[0].Score)
	assert.Equal(t, 0.7, kept[1].Score)
}

func TestIoU(t *testing.T) {
	a := model.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
	assert.Equal(t, 1.0, iou(a, a))
	assert.Equal(t, 0.0, iou(a, model.Box{X1: 10, Y1: 0, X2: 20, Y2: 10}))
	assert.InDelta(t, 25.0/175.0, iou(a, model.Box{X1: 5, Y1: 5, X2: 15, Y2: 15}), 1e-9)
}

func TestToTensorIgnoresAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 255, 0, 255, 0
	}
	face := ExtractFace(src, 2, nil)
	require.Len(t, face, 12)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1.0, face[i], 1e-6)
		assert.InDelta(t, -1.0, face[4+i], 1e-6)
		assert.InDelta(t, 1.0, face[8+i], 1e-6)
	}
}
