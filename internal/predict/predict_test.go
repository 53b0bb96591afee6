package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/enumerate"
	"github.com/dromedary/camel-odds/internal/stats"
)

// legDist builds an exact distribution literal: 4 worlds, Red first in 2,
// second in 1.
func legDist() *enumerate.Distribution {
	return &enumerate.Distribution{
		Worlds: 4,
		RankCounts: map[board.Color][]uint64{
			board.Red:  {2, 1, 1, 0, 0},
			board.Blue: {2, 2, 0, 0, 0},
		},
	}
}

func raceTally() *stats.RaceTally {
	tally := stats.NewRaceTally()
	tally.Record(board.Red, board.Purple, 10)
	tally.Record(board.Red, board.Purple, 10)
	tally.Record(board.Red, board.Blue, 10)
	tally.Record(board.Green, board.Purple, 10)
	return tally
}

func TestEVLegWinner(t *testing.T) {
	sched := DefaultSchedule()
	bet := Bet{Kind: LegWinner, Camel: board.Red, Payout: 5}

	// p1=0.5, p2=0.25: 5*0.5 + 1*0.25 - 1*0.25 = 2.5
	assert.InDelta(t, 2.5, EV(bet, legDist(), nil, sched), 1e-12)
}

func TestEVRaceWinner(t *testing.T) {
	sched := DefaultSchedule()
	bet := Bet{Kind: RaceWinner, Camel: board.Red, Payout: 8}

	// p=0.75: 8*0.75 - 1*0.25 = 5.75
	assert.InDelta(t, 5.75, EV(bet, nil, raceTally(), sched), 1e-12)
}

func TestEVRaceLoser(t *testing.T) {
	sched := DefaultSchedule()
	bet := Bet{Kind: RaceLoser, Camel: board.Purple, Payout: 8}

	// p=0.75: 8*0.75 - 1*0.25 = 5.75
	assert.InDelta(t, 5.75, EV(bet, nil, raceTally(), sched), 1e-12)
}

func TestEVCertainMiss(t *testing.T) {
	sched := DefaultSchedule()
	bet := Bet{Kind: RaceWinner, Camel: board.Orange, Payout: 8}

	// Orange never wins: the EV is the miss penalty.
	assert.InDelta(t, -1.0, EV(bet, nil, raceTally(), sched), 1e-12)
}

func TestEVMissingDistributionsScoreZeroProbability(t *testing.T) {
	sched := DefaultSchedule()

	assert.InDelta(t, -1.0, EV(Bet{Kind: LegWinner, Camel: board.Red, Payout: 5}, nil, nil, sched), 1e-12)
	assert.InDelta(t, -1.0, EV(Bet{Kind: RaceWinner, Camel: board.Red, Payout: 8}, nil, nil, sched), 1e-12)
}

func TestCandidates(t *testing.T) {
	cfg := board.DefaultConfig()
	sched := DefaultSchedule()

	bets := Candidates(cfg, sched)
	// 5 racers * (3 leg tiers + 3 race-winner tiers + 3 race-loser tiers)
	require.Len(t, bets, 45)
	assert.Equal(t, Bet{Kind: LegWinner, Camel: board.Red, Payout: 5}, bets[0])
	assert.Equal(t, Bet{Kind: RaceLoser, Camel: board.Purple, Payout: 3}, bets[44])
}

func TestRankDescending(t *testing.T) {
	cfg := board.DefaultConfig()
	sched := DefaultSchedule()

	ranked := Rank(legDist(), raceTally(), sched, Candidates(cfg, sched))
	require.Len(t, ranked, 45)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].EV, ranked[i].EV)
	}
}

func TestRankStableTieBreak(t *testing.T) {
	sched := DefaultSchedule()
	bets := []Bet{
		{Kind: RaceWinner, Camel: board.Orange, Payout: 8},
		{Kind: RaceWinner, Camel: board.Blue, Payout: 8},
	}

	// Neither camel ever wins, so both bets miss; input order decides.
	ranked := Rank(nil, raceTally(), sched, bets)
	assert.Equal(t, board.Orange, ranked[0].Camel)
	assert.Equal(t, board.Blue, ranked[1].Camel)
}

func TestBestEV(t *testing.T) {
	cfg := board.DefaultConfig()
	sched := DefaultSchedule()

	bets := Candidates(cfg, sched)
	ranked := Rank(legDist(), raceTally(), sched, bets)
	assert.InDelta(t, ranked[0].EV, BestEV(legDist(), raceTally(), sched, bets), 1e-12)

	assert.Equal(t, 0.0, BestEV(nil, nil, sched, nil))
}

func TestBetString(t *testing.T) {
	b := Bet{Kind: LegWinner, Camel: board.Green, Payout: 5}
	assert.Equal(t, "Green leg winner pays 5", b.String())
}
