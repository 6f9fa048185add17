package media

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameCount(t *testing.T) {
	n, err := parseFrameCount("240\n")
	require.NoError(t, err)
	assert.Equal(t, 240, n)

	n, err = parseFrameCount("75,\n")
	require.NoError(t, err)
	assert.Equal(t, 75, n)

	for _, raw := range []string{"", "N/A", "abc"} {
		_, err := parseFrameCount(raw)
		assert.ErrorIs(t, err, ErrUnreadableVideo, raw)
	}
}

func TestNewFFmpegReaderDefaults(t *testing.T) {
	r := NewFFmpegReader("", "")
	assert.Equal(t, "ffmpeg", r.FFmpeg)
	assert.Equal(t, "ffprobe", r.FFprobe)

	r = NewFFmpegReader("/opt/ffmpeg", "/opt/ffprobe")
	assert.Equal(t, "/opt/ffmpeg", r.FFmpeg)
	assert.Equal(t, "/opt/ffprobe", r.FFprobe)
}

// makeClip renders a ten frame 32x24 solid red clip, skipping when the
// ffmpeg tools are not installed.
func makeClip(t *testing.T) string {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command("ffmpeg", "-v", "error",
		"-f", "lavfi", "-i", "color=c=red:s=32x24:r=10",
		"-frames:v", "10",
		"-c:v", "mpeg4", "-q:v", "2",
		path,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return path
}

func TestFFmpegReader(t *testing.T) {
	path := makeClip(t)
	r := NewFFmpegReader("", "")
	ctx := context.Background()

	n, err := r.FrameCount(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	img, err := r.Frame(ctx, path, 3)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
	cr, cg, cb, _ := img.At(16, 12).RGBA()
	assert.Greater(t, cr>>8, uint32(200))
	assert.Less(t, cg>>8, uint32(60))
	assert.Less(t, cb>>8, uint32(60))

	_, err = r.Frame(ctx, path, 50)
	assert.Error(t, err)
}

func TestFFmpegReaderMissingFile(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}
	_, err := NewFFmpegReader("", "").FrameCount(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, ErrUnreadableVideo)
}
