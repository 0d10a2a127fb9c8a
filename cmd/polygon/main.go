// Command polygon runs a demonstration pipeline over randomly expanded integers and prints the
// windowed output.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-stream/internal/config"
	"github.com/askiada/go-stream/internal/logging"
	"github.com/askiada/go-stream/pkg/pipeline"
	"github.com/askiada/go-stream/pkg/pipeline/drawer"
	"github.com/askiada/go-stream/pkg/pipeline/measure"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

var errStrategiesDiffer = errors.New("strategies produced different outputs")

func main() {
	fs := pflag.NewFlagSet("polygon", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERR:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.Error().Err(err).Msg("polygon failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, out io.Writer) error {
	err := pipeline.SetDefaults(pipeline.Defaults{
		Strategy:         model.Strategy(cfg.Strategy),
		CompileThreshold: cfg.CompileThreshold,
	})
	if err != nil {
		return errors.Wrap(err, "unable to set pipeline defaults")
	}

	rc := runConfig{seed: cfg.Seed, skip: cfg.Skip, limit: cfg.Limit}
	if cfg.Compare {
		return compare(ctx, rc, logger)
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Draw != "" {
		file, err := os.Create(cfg.Draw)
		if err != nil {
			return errors.Wrapf(err, "unable to create file %s", cfg.Draw)
		}
		defer file.Close()

		msr := measure.NewDefaultMeasure()
		opts = append(opts, pipeline.WithObservers(
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(), msr, file),
		))
	}

	p := build(rc, opts...)
	if model.Strategy(cfg.Strategy) == model.StrategyCompile {
		logger.Debug().Str("pipeline_id", p.ID()).Msg("fused loop nest:\n" + p.Describe())
		p = p.Compile()
	}

	wrt := bufio.NewWriter(out)
	defer wrt.Flush()

	if cfg.Reduce {
		sum, err := p.Reduce(ctx, func(v, acc int) int { return v + acc }, 0)
		if err != nil {
			return err
		}
		fmt.Fprintln(wrt, sum)
	} else {
		err = p.ForEach(ctx, func(v int) error {
			_, err := fmt.Fprintln(wrt, v)

			return err
		})
		if err != nil {
			return err
		}
	}

	reportMemory(logger)

	return nil
}

// compare runs the chain under both strategies side by side. Each pipeline is consumed by a
// single goroutine and owns its own random source.
func compare(ctx context.Context, rc runConfig, logger zerolog.Logger) error {
	var interpreted, compiled []int

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.Go(func() error {
		var err error
		interpreted, err = build(rc, pipeline.WithStrategy(model.StrategyInterpret), pipeline.WithLogger(logger)).Collect(dCtx)

		return errors.Wrap(err, "interpreted run")
	})
	errGrp.Go(func() error {
		var err error
		compiled, err = build(rc, pipeline.WithLogger(logger)).Compile().Collect(dCtx)

		return errors.Wrap(err, "compiled run")
	})
	err := errGrp.Wait()
	if err != nil {
		return err
	}

	if !slices.Equal(interpreted, compiled) {
		return errors.Wrapf(errStrategiesDiffer, "interpreted %d elements, compiled %d", len(interpreted), len(compiled))
	}
	logger.Info().Int("elements", len(compiled)).Msg("interpreted and compiled outputs match")

	return nil
}

func reportMemory(logger zerolog.Logger) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	logger.Info().
		Uint64("heap_alloc_kb", stats.HeapAlloc/1024).
		Uint64("sys_kb", stats.Sys/1024).
		Uint64("total_alloc_kb", stats.TotalAlloc/1024).
		Msg("memory usage")
}
