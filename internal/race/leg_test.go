package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/randutil"
)

func TestBeginLegRefillsPool(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "2:b 3:g 4:o 5:p 10:kw done:r pool: leg:2")

	require.NoError(t, s.BeginLeg(cfg, randutil.New(1)))

	assert.Equal(t, 3, s.Leg)
	assert.Len(t, s.Pool, 5)
	assert.False(t, s.HasDie(board.DieRed))
	assert.True(t, s.HasDie(board.DieCrazy))
	require.NoError(t, s.Validate(cfg))
}

func TestBeginLegDropsCrazyDieWhenPairFinished(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "2:b 3:g 4:o 5:p 6:r done:kw pool:")

	require.NoError(t, s.BeginLeg(cfg, randutil.New(1)))
	assert.False(t, s.HasDie(board.DieCrazy))
}

func TestBeginLegPlacesDistinctTraps(t *testing.T) {
	cfg := testConfig()
	for seed := int64(0); seed < 20; seed++ {
		s := MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p 10:kw pool:")
		require.NoError(t, s.BeginLeg(cfg, randutil.New(seed)))

		assert.NotEqual(t, s.Traps.OasisTile, s.Traps.DesertTile)
		for _, tile := range []int{s.Traps.OasisTile, s.Traps.DesertTile} {
			assert.GreaterOrEqual(t, tile, 1)
			assert.Less(t, tile, cfg.FinishLine)
			assert.NotContains(t, s.Stacks, tile)
		}
	}
}

func TestBeginLegDeterministic(t *testing.T) {
	cfg := testConfig()
	a := MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p 10:kw pool:")
	b := MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p 10:kw pool:")

	require.NoError(t, a.BeginLeg(cfg, randutil.New(42)))
	require.NoError(t, b.BeginLeg(cfg, randutil.New(42)))

	assert.Equal(t, a.Traps, b.Traps)
}

func TestNewRace(t *testing.T) {
	cfg := testConfig()
	s, err := NewRace(cfg, randutil.New(7))
	require.NoError(t, err)
	require.NoError(t, s.Validate(cfg))

	assert.Equal(t, 1, s.Leg)
	assert.Len(t, s.Pool, 6)

	// Racers enter within one die roll of the start.
	for _, racer := range cfg.Racers() {
		tile, _, ok := s.Find(racer)
		require.True(t, ok)
		assert.GreaterOrEqual(t, tile, 1)
		assert.LessOrEqual(t, tile, cfg.DiceFaces)
	}

	// The crazy pair enters together near the finish.
	bt, _, ok := s.Find(board.Black)
	require.True(t, ok)
	wt, _, ok := s.Find(board.White)
	require.True(t, ok)
	assert.Equal(t, bt, wt)
	assert.GreaterOrEqual(t, bt, cfg.FinishLine-1-cfg.DiceFaces)
}
