package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jvs-project/clonekit/pkg/config"
	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "auto", cfg.Engine)
	assert.True(t, cfg.Fsync)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NotExists(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "clonekit.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clonekit.yaml")
	content := `
engine: reflink-copy
fsync: false
logging:
  level: debug
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.EngineReflinkCopy, cfg.EngineType())
	assert.False(t, cfg.Fsync)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

// TestLoad_PartialKeepsDefaults tests that omitted keys keep their defaults.
func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clonekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: copy\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.EngineCopy, cfg.EngineType())
	assert.True(t, cfg.Fsync)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clonekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrConfigInvalid))
}

func TestLoad_UnknownEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clonekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: juicefs-clone\n"), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrConfigInvalid))
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clonekit.yaml")
	cfg := config.Default()
	require.NoError(t, cfg.Set("engine", "reflink"))
	require.NoError(t, cfg.Set("metrics.enabled", "true"))

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetSet(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Set("fsync", "false"))
	v, err := cfg.Get("fsync")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, cfg.Set("logging.level", "warning"))
	v, err = cfg.Get("logging.level")
	require.NoError(t, err)
	assert.Equal(t, "warn", v)

	assert.Error(t, cfg.Set("engine", "zfs"))
	assert.Error(t, cfg.Set("fsync", "maybe"))
	assert.Error(t, cfg.Set("nope", "x"))
	_, err = cfg.Get("nope")
	assert.Error(t, err)
}
