package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stream/internal/config"
	"github.com/askiada/go-stream/pkg/pipeline"
)

func load(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()

	fs := pflag.NewFlagSet("polygon", pflag.ContinueOnError)
	config.Flags(fs)
	require.NoError(t, fs.Parse(args))

	return config.Load(fs)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := load(t, "--strategy=interpret", "--skip=3", "--limit=-1", "--seed=42", "--reduce", "--log-format=json")
	require.NoError(t, err)
	assert.Equal(t, "interpret", cfg.Strategy)
	assert.Equal(t, 3, cfg.Skip)
	assert.Equal(t, -1, cfg.Limit)
	assert.EqualValues(t, 42, cfg.Seed)
	assert.True(t, cfg.Reduce)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("STREAM_SKIP", "7")
	t.Setenv("STREAM_LOG_LEVEL", "debug")

	cfg, err := load(t, "--limit=5")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Skip)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg, err = load(t, "--skip=1")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Skip)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polygon.yaml")
	content := "strategy: auto\ncompile_threshold: 5\nskip: 10\ncompare: true\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := load(t, "--config", path, "--skip=5")
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Strategy)
	assert.Equal(t, 5, cfg.CompileThreshold)
	assert.Equal(t, 5, cfg.Skip)
	assert.True(t, cfg.Compare)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	_, err := load(t, "--strategy=jit")
	require.ErrorIs(t, err, pipeline.ErrUnknownStrategy)

	_, err = load(t, "--skip=-1")
	require.ErrorIs(t, err, pipeline.ErrNegativeSkip)

	_, err = load(t, "--compile-threshold=-2")
	require.ErrorIs(t, err, pipeline.ErrNegativeSize)

	_, err = load(t, "--log-format=xml")
	assert.ErrorContains(t, err, "log.format")
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("STREAM_LIMIT", "3")
	t.Cleanup(func() { _ = os.Unsetenv("STREAM_SEED") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STREAM_SEED=9\nSTREAM_LIMIT=8\n"), 0o600))

	cfg, err := load(t, "--env-file", path)
	require.NoError(t, err)
	assert.EqualValues(t, 9, cfg.Seed)
	assert.Equal(t, 3, cfg.Limit)

	_, err = load(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
