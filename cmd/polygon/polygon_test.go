package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stream/internal/config"
	"github.com/askiada/go-stream/pkg/pipeline"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

func TestSpellDigits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "zero", spellDigits(0))
	assert.Equal(t, "four two", spellDigits(42))
	assert.Equal(t, "one three four", spellDigits(134))
	assert.Equal(t, "minus seven", spellDigits(-7))
}

func TestReadDigit(t *testing.T) {
	t.Parallel()

	for i, word := range digitWords {
		got, err := readDigit(word)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := readDigit("eleven")
	assert.ErrorIs(t, err, errUnknownWord)
}

func TestBuildStrategiesAgree(t *testing.T) {
	t.Parallel()

	rc := runConfig{seed: 7, skip: 100, limit: 500}

	interpreted, err := build(rc, pipeline.WithStrategy(model.StrategyInterpret)).Collect(t.Context())
	require.NoError(t, err)
	compiled, err := build(rc).Compile().Collect(t.Context())
	require.NoError(t, err)

	assert.Len(t, interpreted, 500)
	assert.Equal(t, interpreted, compiled)
	for _, v := range compiled {
		assert.True(t, v >= 0 && v <= 9, v)
	}
}

func TestBuildSkip(t *testing.T) {
	t.Parallel()

	head, err := build(runConfig{seed: 3, limit: 30}).Collect(t.Context())
	require.NoError(t, err)
	require.Len(t, head, 30)

	tail, err := build(runConfig{seed: 3, skip: 10, limit: 20}).Collect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, head[10:], tail)
}

// The run tests change the process-wide pipeline defaults, so they do not run in parallel.
func TestRunPrintsWindow(t *testing.T) {
	cfg := config.Defaults()
	cfg.Skip = 0
	cfg.Limit = 10
	t.Cleanup(func() { require.NoError(t, pipeline.SetDefaults(pipeline.Defaults{Strategy: model.StrategyAuto, CompileThreshold: pipeline.DefaultCompileThreshold})) })

	var out bytes.Buffer
	require.NoError(t, run(t.Context(), cfg, zerolog.Nop(), &out))

	lines := strings.Fields(out.String())
	require.Len(t, lines, 10)
	sum := 0
	for _, line := range lines {
		v, err := strconv.Atoi(line)
		require.NoError(t, err)
		sum += v
	}

	cfg.Reduce = true
	cfg.Strategy = string(model.StrategyInterpret)
	out.Reset()
	require.NoError(t, run(t.Context(), cfg, zerolog.Nop(), &out))
	assert.Equal(t, strconv.Itoa(sum), strings.TrimSpace(out.String()))
}

func TestRunCompareAndDraw(t *testing.T) {
	cfg := config.Defaults()
	cfg.Limit = 50
	t.Cleanup(func() { require.NoError(t, pipeline.SetDefaults(pipeline.Defaults{Strategy: model.StrategyAuto, CompileThreshold: pipeline.DefaultCompileThreshold})) })

	cfg.Compare = true
	require.NoError(t, run(t.Context(), cfg, zerolog.Nop(), &bytes.Buffer{}))

	cfg.Compare = false
	cfg.Draw = filepath.Join(t.TempDir(), "polygon.dot")
	require.NoError(t, run(t.Context(), cfg, zerolog.Nop(), &bytes.Buffer{}))

	dot, err := os.ReadFile(cfg.Draw)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "strict digraph")
	assert.Contains(t, string(dot), `"0:flatMap" -> "1:flatMap"`)
	assert.Contains(t, string(dot), "emitted: 50")
}

func TestRunInvalidStrategy(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strategy = "jit"

	err := run(t.Context(), cfg, zerolog.Nop(), &bytes.Buffer{})
	assert.ErrorIs(t, err, pipeline.ErrUnknownStrategy)
}
