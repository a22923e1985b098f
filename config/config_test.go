package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 100, cfg.Retrieval.CandidatePool)
	assert.Equal(t, 20, cfg.Retrieval.RerankPool)
	assert.True(t, cfg.Retrieval.RerankEnabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracee.yaml")
	content := []byte("retrieval:\n  top_k: 5\n  rerank_enabled: false\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.False(t, cfg.Retrieval.RerankEnabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep defaults
	assert.Equal(t, 100, cfg.Retrieval.CandidatePool)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retrieval: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracee.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retrieval:\n  top_k: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "top_k")
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	// No config present
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// bracee.yaml present
	content := []byte("retrieval:\n  top_k: 7\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bracee.yaml"), content, 0644))
	cfg, err = LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retrieval.TopK)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracee.yaml")
	original := DefaultConfig()
	original.Retrieval.TopK = 15

	require.NoError(t, original.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestAIConfig_Token(t *testing.T) {
	c := AIConfig{TokenEnv: "BRACEE_TEST_TOKEN"}
	assert.Equal(t, "none", c.Token())

	t.Setenv("BRACEE_TEST_TOKEN", "secret")
	assert.Equal(t, "secret", c.Token())

	c.TokenEnv = ""
	assert.Equal(t, "none", c.Token())
}
