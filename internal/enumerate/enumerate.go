// Package enumerate computes exact end-of-leg distributions by walking
// every remaining dice sequence through the draw engine. All n! orderings
// of an n-die pool are equally likely, as is each of the 3^n face
// combinations, so every leaf carries the same weight and the counts are
// exact rationals over a common denominator.
package enumerate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/race"
)

// DefaultMaxDice is the safe enumeration bound: the full pyramid of one
// leg. 6 dice is 6!*3^6 = 524,880 leaves.
const DefaultMaxDice = 6

// Options tunes an enumeration run.
type Options struct {
	// MaxDice is the largest pool exact enumeration will accept;
	// DefaultMaxDice when zero. Larger pools fail with
	// race.ErrStateSpaceTooLarge so callers switch to simulation.
	MaxDice int

	// Workers is the parallel fan-out across first-level branches;
	// GOMAXPROCS-driven when zero.
	Workers int
}

// Distribution is an exact end-of-leg distribution. Counts are integer
// world tallies over Worlds, so results are reproducible bit for bit.
type Distribution struct {
	// Worlds is the total leaf count, n! * faces^n.
	Worlds uint64

	// RankCounts maps each racer to its per-rank world counts
	// (index 0 = leg winner).
	RankCounts map[board.Color][]uint64

	// TileSums maps every camel to the sum of its end-of-leg tiles
	// across all worlds. Finished camels count as the finish line.
	TileSums map[board.Color]int64
}

func newDistribution(cfg board.Config) *Distribution {
	d := &Distribution{
		RankCounts: make(map[board.Color][]uint64, cfg.RacerCount),
		TileSums:   make(map[board.Color]int64),
	}
	for _, racer := range cfg.Racers() {
		d.RankCounts[racer] = make([]uint64, cfg.RacerCount)
	}
	return d
}

// RankProb returns the exact probability the racer ends the leg at the
// given rank (0 = first)
func (d *Distribution) RankProb(c board.Color, rank int) float64 {
	counts, ok := d.RankCounts[c]
	if !ok || rank < 0 || rank >= len(counts) || d.Worlds == 0 {
		return 0
	}
	return float64(counts[rank]) / float64(d.Worlds)
}

// First returns the probability the racer wins the leg
func (d *Distribution) First(c board.Color) float64 { return d.RankProb(c, 0) }

// Second returns the probability the racer is leg runner-up
func (d *Distribution) Second(c board.Color) float64 { return d.RankProb(c, 1) }

// ExpectedTile returns the expected end-of-leg tile for any camel
func (d *Distribution) ExpectedTile(c board.Color) float64 {
	if d.Worlds == 0 {
		return 0
	}
	return float64(d.TileSums[c]) / float64(d.Worlds)
}

func (d *Distribution) merge(other *Distribution) {
	d.Worlds += other.Worlds
	for c, counts := range other.RankCounts {
		dst := d.RankCounts[c]
		for i, n := range counts {
			dst[i] += n
		}
	}
	for c, sum := range other.TileSums {
		d.TileSums[c] += sum
	}
}

// record books one leaf with its world weight. Weights are not all equal:
// a camel finishing mid-leg retires its die, shortening the remaining
// tree, so such leaves stand for proportionally more worlds.
func (d *Distribution) record(cfg board.Config, s race.GameState, weight uint64) {
	d.Worlds += weight
	for rank, camel := range s.Standings(cfg) {
		d.RankCounts[camel][rank] += weight
	}
	for _, camel := range cfg.Camels() {
		if tile, _, ok := s.Find(camel); ok {
			d.TileSums[camel] += int64(tile) * int64(weight)
		} else if s.IsFinished(camel) {
			d.TileSums[camel] += int64(cfg.FinishLine) * int64(weight)
		}
	}
}

// Leg exhaustively enumerates the remaining dice pool of the current leg
// and returns the exact outcome distribution. The walk is parallel
// across first-level branches, each worker on its own cloned state, and
// cancellable between subtrees; a cancelled enumeration returns the
// context error because partial exact results are meaningless.
func Leg(ctx context.Context, cfg board.Config, state race.GameState, opts Options) (*Distribution, error) {
	maxDice := opts.MaxDice
	if maxDice == 0 {
		maxDice = DefaultMaxDice
	}
	if n := len(state.Pool); n > maxDice {
		return nil, fmt.Errorf("pool of %d dice exceeds safe bound %d: %w", n, maxDice, race.ErrStateSpaceTooLarge)
	}
	if err := state.Validate(cfg); err != nil {
		return nil, err
	}

	if len(state.Pool) == 0 {
		// Leg already complete: one deterministic world.
		dist := newDistribution(cfg)
		dist.record(cfg, state, 1)
		return dist, nil
	}

	// Total world count n! * faces^n; child weights divide it exactly at
	// every level because branch factors are distinct integers <= n.
	worlds := uint64(1)
	for i := 1; i <= len(state.Pool); i++ {
		worlds *= uint64(i) * uint64(cfg.DiceFaces)
	}
	branchWeight := worlds / (uint64(len(state.Pool)) * uint64(cfg.DiceFaces))

	type branch struct {
		die  board.Die
		face int
	}
	var branches []branch
	for _, die := range state.Pool {
		for face := 1; face <= cfg.DiceFaces; face++ {
			branches = append(branches, branch{die: die, face: face})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	if workers > len(branches) {
		workers = len(branches)
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *Distribution, workers)

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			acc := newDistribution(cfg)
			for i := w; i < len(branches); i += workers {
				b := branches[i]
				next, err := race.Apply(cfg, state, b.die, b.face)
				if err != nil {
					return err
				}
				if err := walk(ctx, cfg, next, branchWeight, acc); err != nil {
					return err
				}
			}
			results <- acc
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	dist := newDistribution(cfg)
	for partial := range results {
		dist.merge(partial)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dist, nil
}

// walk recurses over every remaining ordering and face combination,
// splitting the world weight evenly among children. Depth is bounded by
// the pool size, which the safe bound caps.
func walk(ctx context.Context, cfg board.Config, s race.GameState, weight uint64, acc *Distribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.Pool) == 0 {
		acc.record(cfg, s, weight)
		return nil
	}
	childWeight := weight / (uint64(len(s.Pool)) * uint64(cfg.DiceFaces))
	for _, die := range s.Pool {
		for face := 1; face <= cfg.DiceFaces; face++ {
			next, err := race.Apply(cfg, s, die, face)
			if err != nil {
				return err
			}
			if err := walk(ctx, cfg, next, childWeight, acc); err != nil {
				return err
			}
		}
	}
	return nil
}
