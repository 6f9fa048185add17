package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-labs/veritas/internal/model"
)

type fakeImageModel struct {
	logit float64
	err   error
	got   []float32
}

func (m *fakeImageModel) Logit(face []float32) (float64, error) {
	m.got = face
	return m.logit, m.err
}

type fakeVideoModel struct {
	logit  float64
	frames [][]float32
}

func (m *fakeVideoModel) Logit(frames [][]float32) (float64, error) {
	m.frames = frames
	return m.logit, nil
}

type fakeFrames struct {
	count    int
	bad      map[int]bool
	read     []int
	countErr error
}

func (f *fakeFrames) FrameCount(context.Context, string) (int, error) {
	return f.count, f.countErr
}

func (f *fakeFrames) Frame(_ context.Context, _ string, index int) (image.Image, error) {
	f.read = append(f.read, index)
	if f.bad[index] {
		return nil, errors.New("decode error")
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	shade := uint8(index % 256)
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	return img, nil
}

func grayImage(c uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{c, c, c, 255})
		}
	}
	return img
}

func newDetection(img ImageModel, video VideoModel, frames FrameSource) *DetectionService {
	return NewDetectionService(nil, img, video, frames, DetectionConfig{ImgSize: 4, NumFrames: 5, MaxSeqLen: 400})
}

func TestPredictImage(t *testing.T) {
	im := &fakeImageModel{logit: math.Log(0.9712 / (1 - 0.9712))}
	svc := newDetection(im, nil, nil)
	svc.decode = func(string) (image.Image, error) { return grayImage(255), nil }

	got, err := svc.PredictImage(context.Background(), "x.png")
	require.NoError(t, err)
	assert.Equal(t, &model.ImagePrediction{Prediction: model.Fake, Confidence: "97.12%", Probability: "0.9712"}, got)
	require.Len(t, im.got, 3*4*4)
	assert.InDelta(t, 1.0, im.got[0], 1e-6)
}

func TestPredictImageReal(t *testing.T) {
	svc := newDetection(&fakeImageModel{logit: -3}, nil, nil)
	svc.decode = func(string) (image.Image, error) { return grayImage(0), nil }

	got, err := svc.PredictImage(context.Background(), "x.png")
	require.NoError(t, err)
	assert.Equal(t, model.Real, got.Prediction)
	assert.Equal(t, "95.26%", got.Confidence)
	assert.Equal(t, "0.0474", got.Probability)
}

func TestPredictImageErrors(t *testing.T) {
	svc := newDetection(&fakeImageModel{}, nil, nil)
	svc.decode = func(string) (image.Image, error) { return nil, errors.New("unreadable") }
	_, err := svc.PredictImage(context.Background(), "x.png")
	assert.EqualError(t, err, "unreadable")

	svc = newDetection(&fakeImageModel{err: errors.New("ort failed")}, nil, nil)
	svc.decode = func(string) (image.Image, error) { return grayImage(10), nil }
	_, err = svc.PredictImage(context.Background(), "x.png")
	assert.EqualError(t, err, "ort failed")
}

func TestPredictVideoSamplesUniformly(t *testing.T) {
	vm := &fakeVideoModel{logit: 0}
	frames := &fakeFrames{count: 101}
	svc := newDetection(nil, vm, frames)

	got, err := svc.PredictVideo(context.Background(), "v.mp4")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 25, 50, 75, 100}, frames.read)
	assert.Equal(t, &model.VideoPrediction{
		Prediction: model.Fake, Confidence: "50.00%", ProbabilityFake: "0.5000", FramesProcessed: 5,
	}, got)
	assert.Len(t, vm.frames, 5)
}

func TestPredictVideoCapsAtMaxSeqLen(t *testing.T) {
	frames := &fakeFrames{count: 10000}
	svc := newDetection(nil, &fakeVideoModel{}, frames)

	_, err := svc.PredictVideo(context.Background(), "v.mp4")
	require.NoError(t, err)
	assert.Equal(t, 399, frames.read[len(frames.read)-1])
}

func TestPredictVideoPadsSkippedFrames(t *testing.T) {
	vm := &fakeVideoModel{logit: -1}
	frames := &fakeFrames{count: 101, bad: map[int]bool{75: true, 100: true}}
	svc := newDetection(nil, vm, frames)

	got, err := svc.PredictVideo(context.Background(), "v.mp4")
	require.NoError(t, err)
	assert.Equal(t, 5, got.FramesProcessed)
	require.Len(t, vm.frames, 5)
	// frame 50 is repeated into the last two slots
	assert.Equal(t, vm.frames[2], vm.frames[3])
	assert.Equal(t, vm.frames[2], vm.frames[4])
}

func TestPredictVideoErrors(t *testing.T) {
	_, err := newDetection(nil, &fakeVideoModel{}, &fakeFrames{count: 0}).PredictVideo(context.Background(), "v.mp4")
	assert.ErrorIs(t, err, ErrEmptyVideo)

	bad := map[int]bool{0: true, 1: true, 2: true}
	_, err = newDetection(nil, &fakeVideoModel{}, &fakeFrames{count: 3, bad: bad}).PredictVideo(context.Background(), "v.mp4")
	assert.ErrorIs(t, err, ErrNoFramesDecode)

	countErr := errors.New("ffprobe missing")
	_, err = newDetection(nil, &fakeVideoModel{}, &fakeFrames{countErr: countErr}).PredictVideo(context.Background(), "v.mp4")
	assert.ErrorIs(t, err, countErr)
}
