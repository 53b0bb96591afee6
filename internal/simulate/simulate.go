// Package simulate estimates race-level outcomes by Monte Carlo: exact
// enumeration across leg boundaries is unbounded, so full races are
// sampled instead. Trials are independent and individually reseeded, so
// any one of them can be replayed from the root seed.
package simulate

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/race"
	"github.com/dromedary/camel-odds/internal/randutil"
	"github.com/dromedary/camel-odds/internal/stats"
)

// Options tunes a simulation run.
type Options struct {
	// Trials is the number of independent races to sample; must be
	// positive.
	Trials int

	// Seed is the root seed; trial n runs on its own stream derived from
	// it.
	Seed int64

	// Workers is the parallel fan-out; GOMAXPROCS-driven when zero.
	Workers int

	// Logger, when set together with ProgressEvery, reports progress on
	// long runs. Nil means silent.
	Logger *log.Logger

	// ProgressEvery is the progress report interval.
	ProgressEvery time.Duration

	// Clock drives progress timing; the real clock when nil. Tests
	// substitute a mock.
	Clock quartz.Clock
}

// RaceEstimate is an empirical race-outcome distribution. The embedded
// tally carries the completed trial count, so callers can reason about
// standard error; Requested may exceed it after cancellation, in which
// case the estimate is still valid at lower precision.
type RaceEstimate struct {
	*stats.RaceTally
	Seed      int64
	Requested int
	Elapsed   time.Duration
}

// EstimateRace samples full races from a starting state and tallies which
// racer finishes first and which trails last. Leg boundaries inside a
// trial refill the pool and redraw the trap layout at random; the race
// ends the moment any camel crosses the finish line. Cancellation stops
// between trials and the partial tally is returned without error.
func EstimateRace(ctx context.Context, cfg board.Config, start race.RaceState, opts Options) (*RaceEstimate, error) {
	if opts.Trials <= 0 {
		return nil, fmt.Errorf("trials %d: must be positive: %w", opts.Trials, race.ErrInvalidDraw)
	}
	if err := start.Validate(cfg); err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	startedAt := clock.Now()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	if workers > opts.Trials {
		workers = opts.Trials
	}

	var done atomic.Int64
	if opts.Logger != nil && opts.ProgressEvery > 0 {
		tickCtx, stopTicker := context.WithCancel(ctx)
		defer stopTicker()
		waiter := clock.TickerFunc(tickCtx, opts.ProgressEvery, func() error {
			opts.Logger.Info("simulation progress",
				"trials", done.Load(),
				"requested", opts.Trials)
			return nil
		}, "progress")
		defer waiter.Wait() //nolint:errcheck // stops with context cancellation
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan *stats.RaceTally, workers)

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := stats.NewRaceTally()
			for trial := w; trial < opts.Trials; trial += workers {
				if gctx.Err() != nil {
					break // completed trials remain a valid estimate
				}
				winner, loser, draws, err := runTrial(cfg, start, randutil.Trial(opts.Seed, trial))
				if err != nil {
					return fmt.Errorf("trial %d: %w", trial, err)
				}
				local.Record(winner, loser, draws)
				done.Add(1)
			}
			results <- local
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	tally := stats.NewRaceTally()
	for partial := range results {
		tally.Merge(partial)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := tally.Validate(); err != nil {
		return nil, fmt.Errorf("tally validation: %w", err)
	}

	return &RaceEstimate{
		RaceTally: tally,
		Seed:      opts.Seed,
		Requested: opts.Trials,
		Elapsed:   clock.Since(startedAt),
	}, nil
}

// runTrial plays one race to completion on its own RNG stream
func runTrial(cfg board.Config, start race.RaceState, rng *rand.Rand) (winner, loser board.Color, draws int, err error) {
	s := start.Clone()
	for !s.RaceOver() {
		if len(s.Pool) == 0 {
			if err := s.BeginLeg(cfg, rng); err != nil {
				return 0, 0, 0, err
			}
		}
		die := s.Pool[rng.IntN(len(s.Pool))]
		face := 1 + rng.IntN(cfg.DiceFaces)
		next, err := race.Apply(cfg, s.GameState, die, face)
		if err != nil {
			return 0, 0, 0, err
		}
		s.GameState = next
		draws++
	}

	winner, _ = s.Winner()
	loser, _ = s.Loser(cfg)
	return winner, loser, draws, nil
}
