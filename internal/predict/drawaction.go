package predict

import (
	"context"
	"fmt"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/enumerate"
	"github.com/dromedary/camel-odds/internal/race"
	"github.com/dromedary/camel-odds/internal/randutil"
	"github.com/dromedary/camel-odds/internal/simulate"
	"github.com/dromedary/camel-odds/internal/stats"
)

// DrawOptions tunes the draw-action valuation.
type DrawOptions struct {
	// TrialsPerBranch is the simulation budget for each candidate next
	// state; 2000 when zero.
	TrialsPerBranch int

	// Seed drives branch simulations and, when the pool is empty, the
	// fresh leg's trap layout.
	Seed int64

	// Enumeration is forwarded to the exact engine.
	Enumeration enumerate.Options
}

// DrawActionEV values the "draw a die" action: the unit payoff for
// drawing, minus the expected improvement the revealed information gives
// to the best available bet. Every possible next draw is enumerated with
// equal probability; each resulting state is valued by its best bet EV,
// exact at leg level and simulated at race level.
func DrawActionEV(ctx context.Context, cfg board.Config, state race.RaceState, sched Schedule, opts DrawOptions) (float64, error) {
	trials := opts.TrialsPerBranch
	if trials <= 0 {
		trials = 2000
	}
	bets := Candidates(cfg, sched)

	current, err := bestBetValue(ctx, cfg, state, sched, bets, trials, opts, 0)
	if err != nil {
		return 0, fmt.Errorf("valuing current state: %w", err)
	}

	base := state.Clone()
	if len(base.Pool) == 0 {
		// The next draw opens a fresh leg.
		if err := base.BeginLeg(cfg, randutil.New(opts.Seed)); err != nil {
			return 0, err
		}
	}
	if len(base.Pool) == 0 {
		return 1, nil
	}

	p := 1.0 / float64(len(base.Pool)*cfg.DiceFaces)
	expected := 0.0
	branch := 0
	for _, die := range base.Pool {
		for face := 1; face <= cfg.DiceFaces; face++ {
			branch++
			next, err := race.Apply(cfg, base.GameState, die, face)
			if err != nil {
				return 0, err
			}
			v, err := bestBetValue(ctx, cfg, race.RaceState{GameState: next}, sched, bets, trials, opts, branch)
			if err != nil {
				return 0, fmt.Errorf("valuing draw %s/%d: %w", die, face, err)
			}
			expected += p * v
		}
	}

	return 1 - (expected - current), nil
}

// bestBetValue returns the best available bet EV for a state: exact leg
// distribution plus a simulated (or, for a decided race, deterministic)
// race tally
func bestBetValue(ctx context.Context, cfg board.Config, st race.RaceState, sched Schedule, bets []Bet, trials int, opts DrawOptions, branch int) (float64, error) {
	leg, err := enumerate.Leg(ctx, cfg, st.GameState, opts.Enumeration)
	if err != nil {
		return 0, err
	}

	var tally *stats.RaceTally
	if st.RaceOver() {
		tally = stats.NewRaceTally()
		winner, _ := st.Winner()
		loser, _ := st.Loser(cfg)
		tally.Record(winner, loser, 0)
	} else {
		est, err := simulate.EstimateRace(ctx, cfg, st, simulate.Options{
			Trials: trials,
			Seed:   randutil.Trial(opts.Seed, branch).Int64(),
		})
		if err != nil {
			return 0, err
		}
		tally = est.RaceTally
	}

	return BestEV(leg, tally, sched, bets), nil
}
