package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "private", cfg.Server.UploadDir)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, 160, cfg.Models.ImgSize)
	assert.Equal(t, 20, cfg.Models.NumFrames)
	assert.Equal(t, 400, cfg.Models.MaxSeqLen)
	assert.InDelta(t, 0.5, cfg.Models.FaceConfidence, 1e-9)
	assert.Equal(t, "qwen2.5vl:7b", cfg.LLM.Model)
	assert.Equal(t, 10, cfg.RAG.MaxWebResults)
	assert.Equal(t, 2, cfg.RAG.TrustedK)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("server:\n  port: \"9090\"\nllm:\n  model: llama3\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("VERITAS_LLM_MODEL", "mistral")
	t.Setenv("VERITAS_RAG_MAX_WEB_RESULTS", "6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 6, cfg.RAG.MaxWebResults)
}
