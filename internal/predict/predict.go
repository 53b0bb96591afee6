// Package predict values the betting actions available from a given race
// state. It is a pure reducer over the distributions the enumeration and
// simulation engines produce; the payout schedule is injected
// configuration, never a package constant.
package predict

import (
	"fmt"
	"sort"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/enumerate"
	"github.com/dromedary/camel-odds/internal/stats"
)

// Kind is the class of claim a bet makes.
type Kind int

const (
	// LegWinner pays the tier if the camel wins the current leg, the
	// runner-up payout if it comes second, and the miss penalty
	// otherwise.
	LegWinner Kind = iota

	// RaceWinner pays the tier if the camel wins the race, the miss
	// penalty otherwise.
	RaceWinner

	// RaceLoser pays the tier if the camel trails the finished race.
	RaceLoser
)

// String returns the bet kind name
func (k Kind) String() string {
	switch k {
	case LegWinner:
		return "leg winner"
	case RaceWinner:
		return "race winner"
	case RaceLoser:
		return "race loser"
	default:
		return "?"
	}
}

// Schedule is the payout configuration for all bet kinds. Tier slices are
// ordered best card first; each candidate camel offers one bet per
// remaining tier.
type Schedule struct {
	LegTiers     []int
	RaceTiers    []int
	SecondPayout int
	MissPenalty  int
}

// DefaultSchedule returns the standard betting cards
func DefaultSchedule() Schedule {
	return Schedule{
		LegTiers:     []int{5, 3, 2},
		RaceTiers:    []int{8, 5, 3},
		SecondPayout: 1,
		MissPenalty:  1,
	}
}

// Bet is a single candidate prediction: a claim about one camel at one
// payout tier.
type Bet struct {
	Kind   Kind
	Camel  board.Color
	Payout int
}

// String renders the bet for display
func (b Bet) String() string {
	return fmt.Sprintf("%s %s pays %d", b.Camel, b.Kind, b.Payout)
}

// RankedBet pairs a bet with its expected value.
type RankedBet struct {
	Bet
	EV float64
}

// Candidates lists every available bet in a fixed order: leg bets per
// racer per tier, then race-winner bets, then race-loser bets. The order
// is the tie-break for Rank.
func Candidates(cfg board.Config, sched Schedule) []Bet {
	var bets []Bet
	for _, racer := range cfg.Racers() {
		for _, tier := range sched.LegTiers {
			bets = append(bets, Bet{Kind: LegWinner, Camel: racer, Payout: tier})
		}
	}
	for _, racer := range cfg.Racers() {
		for _, tier := range sched.RaceTiers {
			bets = append(bets, Bet{Kind: RaceWinner, Camel: racer, Payout: tier})
		}
	}
	for _, racer := range cfg.Racers() {
		for _, tier := range sched.RaceTiers {
			bets = append(bets, Bet{Kind: RaceLoser, Camel: racer, Payout: tier})
		}
	}
	return bets
}

// EV computes the expected value of one bet against the supplied
// distributions. Leg bets need the exact leg distribution; race bets
// need the race tally. A bet whose distribution is missing values at
// zero probability.
func EV(b Bet, leg *enumerate.Distribution, raceTally *stats.RaceTally, sched Schedule) float64 {
	miss := float64(sched.MissPenalty)
	switch b.Kind {
	case LegWinner:
		var p1, p2 float64
		if leg != nil {
			p1, p2 = leg.First(b.Camel), leg.Second(b.Camel)
		}
		return float64(b.Payout)*p1 + float64(sched.SecondPayout)*p2 - miss*(1-p1-p2)
	case RaceWinner:
		var p float64
		if raceTally != nil {
			p = raceTally.WinProb(b.Camel)
		}
		return float64(b.Payout)*p - miss*(1-p)
	case RaceLoser:
		var p float64
		if raceTally != nil {
			p = raceTally.LossProb(b.Camel)
		}
		return float64(b.Payout)*p - miss*(1-p)
	default:
		return 0
	}
}

// Rank orders candidate bets by expected value, best first. Ties keep the
// candidates' input order, so the result is deterministic for a fixed
// distribution.
func Rank(leg *enumerate.Distribution, raceTally *stats.RaceTally, sched Schedule, bets []Bet) []RankedBet {
	ranked := make([]RankedBet, len(bets))
	for i, b := range bets {
		ranked[i] = RankedBet{Bet: b, EV: EV(b, leg, raceTally, sched)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EV > ranked[j].EV
	})
	return ranked
}

// BestEV returns the expected value of the best available bet, or zero
// when no bets exist
func BestEV(leg *enumerate.Distribution, raceTally *stats.RaceTally, sched Schedule, bets []Bet) float64 {
	best := 0.0
	haveBest := false
	for _, b := range bets {
		ev := EV(b, leg, raceTally, sched)
		if !haveBest || ev > best {
			best = ev
			haveBest = true
		}
	}
	return best
}
