package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromedary/camel-odds/internal/board"
)

func TestRecord(t *testing.T) {
	tally := NewRaceTally()
	tally.Record(board.Red, board.Purple, 12)
	tally.Record(board.Red, board.Blue, 18)
	tally.Record(board.Green, board.Purple, 15)

	assert.Equal(t, 3, tally.Trials)
	assert.InDelta(t, 2.0/3.0, tally.WinProb(board.Red), 1e-12)
	assert.InDelta(t, 2.0/3.0, tally.LossProb(board.Purple), 1e-12)
	assert.Equal(t, 0.0, tally.WinProb(board.Orange))
	assert.InDelta(t, 15.0, tally.MeanDraws(), 1e-12)
	require.NoError(t, tally.Validate())
}

func TestMerge(t *testing.T) {
	a := NewRaceTally()
	a.Record(board.Red, board.Blue, 10)
	b := NewRaceTally()
	b.Record(board.Blue, board.Red, 14)
	b.Record(board.Red, board.Green, 11)

	a.Merge(b)

	assert.Equal(t, 3, a.Trials)
	assert.Equal(t, 2, a.Wins[board.Red])
	assert.Equal(t, int64(35), a.DrawsSum)
	require.NoError(t, a.Validate())
}

func TestEmptyTally(t *testing.T) {
	tally := NewRaceTally()
	assert.Equal(t, 0.0, tally.WinProb(board.Red))
	assert.Equal(t, 0.0, tally.MeanDraws())
	assert.Equal(t, 0.0, tally.StdError(0.5))
	require.NoError(t, tally.Validate())
}

func TestStdError(t *testing.T) {
	tally := NewRaceTally()
	for i := 0; i < 100; i++ {
		tally.Record(board.Red, board.Blue, 1)
	}
	// sqrt(0.5*0.5/100) = 0.05
	assert.InDelta(t, 0.05, tally.StdError(0.5), 1e-12)
	assert.Equal(t, 0.0, tally.StdError(0))
}

func TestValidateErrors(t *testing.T) {
	tally := NewRaceTally()
	tally.Record(board.Red, board.Blue, 5)

	tally.Wins[board.Green]++
	assert.Error(t, tally.Validate())

	tally = NewRaceTally()
	tally.Record(board.Red, board.Blue, 5)
	tally.DrawsSum = -1
	assert.Error(t, tally.Validate())
}
