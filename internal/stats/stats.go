// Package stats accumulates empirical race outcomes across Monte Carlo
// trials. Tallies merge by summation, so worker partials combine in any
// order.
package stats

import (
	"fmt"
	"math"

	"github.com/dromedary/camel-odds/internal/board"
)

// RaceTally counts race winners and losers over independent trials.
type RaceTally struct {
	Trials   int
	Wins     map[board.Color]int
	Losses   map[board.Color]int
	DrawsSum int64 // total draws across all trials
}

// NewRaceTally returns an empty tally
func NewRaceTally() *RaceTally {
	return &RaceTally{
		Wins:   make(map[board.Color]int),
		Losses: make(map[board.Color]int),
	}
}

// Record adds one completed trial
func (t *RaceTally) Record(winner, loser board.Color, draws int) {
	t.Trials++
	t.Wins[winner]++
	t.Losses[loser]++
	t.DrawsSum += int64(draws)
}

// Merge folds another tally into this one
func (t *RaceTally) Merge(other *RaceTally) {
	t.Trials += other.Trials
	for c, n := range other.Wins {
		t.Wins[c] += n
	}
	for c, n := range other.Losses {
		t.Losses[c] += n
	}
	t.DrawsSum += other.DrawsSum
}

// WinProb returns the empirical probability the camel wins the race
func (t *RaceTally) WinProb(c board.Color) float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.Wins[c]) / float64(t.Trials)
}

// LossProb returns the empirical probability the camel finishes last
func (t *RaceTally) LossProb(c board.Color) float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.Losses[c]) / float64(t.Trials)
}

// MeanDraws returns the average number of draws until the race ended
func (t *RaceTally) MeanDraws() float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.DrawsSum) / float64(t.Trials)
}

// StdError returns the standard error of an empirical probability p at
// this trial count, sqrt(p(1-p)/n)
func (t *RaceTally) StdError(p float64) float64 {
	if t.Trials == 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(t.Trials))
}

// Validate checks the tally's internal accounting
func (t *RaceTally) Validate() error {
	wins, losses := 0, 0
	for _, n := range t.Wins {
		wins += n
	}
	for _, n := range t.Losses {
		losses += n
	}
	if wins != t.Trials {
		return fmt.Errorf("win counts total %d, want %d trials", wins, t.Trials)
	}
	if losses != t.Trials {
		return fmt.Errorf("loss counts total %d, want %d trials", losses, t.Trials)
	}
	if t.DrawsSum < 0 {
		return fmt.Errorf("negative draws total %d", t.DrawsSum)
	}
	return nil
}
