package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/veritas-labs/veritas/internal/inference"
	"github.com/veritas-labs/veritas/internal/media"
	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
	"github.com/veritas-labs/veritas/internal/pkg/metrics"
)

var (
	ErrEmptyVideo     = errors.New("video has no frames")
	ErrNoFramesDecode = errors.New("no video frame could be decoded")
)

type ImageModel interface {
	Logit(face []float32) (float64, error)
}

type VideoModel interface {
	Logit(frames [][]float32) (float64, error)
}

// FrameSource reads individual frames out of a video file.
type FrameSource interface {
	FrameCount(ctx context.Context, path string) (int, error)
	Frame(ctx context.Context, path string, index int) (image.Image, error)
}

type DetectionConfig struct {
	ImgSize   int
	NumFrames int
	MaxSeqLen int
}

func (c DetectionConfig) withDefaults() DetectionConfig {
	if c.ImgSize <= 0 {
		c.ImgSize = 160
	}
	if c.NumFrames <= 0 {
		c.NumFrames = 20
	}
	if c.MaxSeqLen <= 0 {
		c.MaxSeqLen = 400
	}
	return c
}

// DetectionService runs the deepfake classifiers on uploaded media.
type DetectionService struct {
	detector inference.Detector
	image    ImageModel
	video    VideoModel
	frames   FrameSource
	cfg      DetectionConfig
	decode   func(path string) (image.Image, error)
}

func NewDetectionService(detector inference.Detector, img ImageModel, video VideoModel, frames FrameSource, cfg DetectionConfig) *DetectionService {
	return &DetectionService{
		detector: detector,
		image:    img,
		video:    video,
		frames:   frames,
		cfg:      cfg.withDefaults(),
		decode:   media.DecodeImage,
	}
}

func (s *DetectionService) PredictImage(ctx context.Context, path string) (*model.ImagePrediction, error) {
	start := time.Now()
	img, err := s.decode(path)
	if err != nil {
		return nil, err
	}
	face := inference.ExtractFace(img, s.cfg.ImgSize, s.detector)
	logit, err := s.image.Logit(face)
	if err != nil {
		return nil, err
	}
	metrics.InferenceSeconds.WithLabelValues(string(model.RequestImage)).Observe(time.Since(start).Seconds())

	v := inference.FromLogit(logit)
	metrics.PredictionsTotal.WithLabelValues(string(model.RequestImage), string(v.Prediction)).Inc()
	return &model.ImagePrediction{
		Prediction:  v.Prediction,
		Confidence:  v.ConfidenceString(),
		Probability: v.ProbabilityString(),
	}, nil
}

// PredictVideo samples NumFrames frames uniformly from the first MaxSeqLen
// frames. Unreadable frames are skipped and the last face repeated.
func (s *DetectionService) PredictVideo(ctx context.Context, path string) (*model.VideoPrediction, error) {
	start := time.Now()
	total, err := s.frames.FrameCount(ctx, path)
	if err != nil {
		return nil, err
	}
	total = min(total, s.cfg.MaxSeqLen)
	if total <= 0 {
		return nil, ErrEmptyVideo
	}

	faces := make([][]float32, 0, s.cfg.NumFrames)
	for _, idx := range inference.UniformIndices(total, s.cfg.NumFrames) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := s.frames.Frame(ctx, path, idx)
		if err != nil {
			logger.Debug("skipping unreadable frame", "index", idx, "error", err)
			continue
		}
		faces = append(faces, inference.ExtractFace(frame, s.cfg.ImgSize, s.detector))
	}
	if len(faces) == 0 {
		return nil, ErrNoFramesDecode
	}

	faces = inference.PadFrames(faces, s.cfg.NumFrames)
	logit, err := s.video.Logit(faces)
	if err != nil {
		return nil, fmt.Errorf("video model: %w", err)
	}
	metrics.InferenceSeconds.WithLabelValues(string(model.RequestVideo)).Observe(time.Since(start).Seconds())

	v := inference.FromLogit(logit)
	metrics.PredictionsTotal.WithLabelValues(string(model.RequestVideo), string(v.Prediction)).Inc()
	return &model.VideoPrediction{
		Prediction:      v.Prediction,
		Confidence:      v.ConfidenceString(),
		ProbabilityFake: v.ProbabilityString(),
		FramesProcessed: len(faces),
	}, nil
}
