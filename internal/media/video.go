package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

var ErrUnreadableVideo = errors.New("cannot open video")

// FFmpegReader pulls frame counts and single frames out of a video file by
// shelling out to ffprobe and ffmpeg.
type FFmpegReader struct {
	FFmpeg  string
	FFprobe string
}

func NewFFmpegReader(ffmpeg, ffprobe string) *FFmpegReader {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &FFmpegReader{FFmpeg: ffmpeg, FFprobe: ffprobe}
}

// FrameCount returns the number of video frames in the first video stream.
func (r *FFmpegReader) FrameCount(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, r.FFprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v %s", ErrUnreadableVideo, path, err, strings.TrimSpace(stderr.String()))
	}
	return parseFrameCount(string(out))
}

func parseFrameCount(raw string) (int, error) {
	field := strings.TrimSpace(raw)
	// Some containers report "N/A" or a trailing separator.
	field = strings.TrimSuffix(field, ",")
	if field == "" || field == "N/A" {
		return 0, fmt.Errorf("%w: frame count unavailable", ErrUnreadableVideo)
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: bad frame count %q", ErrUnreadableVideo, field)
	}
	return n, nil
}

// Frame decodes the frame at the given zero-based index.
func (r *FFmpegReader) Frame(ctx context.Context, path string, index int) (image.Image, error) {
	cmd := exec.CommandContext(ctx, r.FFmpeg,
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", index),
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame %d: %v %s", index, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg frame %d: no data", index)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame %d: %w", index, err)
	}
	return img, nil
}
