package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromedary/camel-odds/internal/board"
)

func TestStandings(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "2:ob 7:rg 1:p 10:kw")

	// Topmost of the leading tile first; crazy camels never place.
	assert.Equal(t, []board.Color{
		board.Green, board.Red, board.Blue, board.Orange, board.Purple,
	}, s.Standings(cfg))
}

func TestStandingsFinishedFirst(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "2:o 7:r 1:p 10:kw done:gb pool:rop*")

	assert.Equal(t, []board.Color{
		board.Green, board.Blue, board.Red, board.Orange, board.Purple,
	}, s.Standings(cfg))
}

func TestLoserIsBottomOfTrailingStack(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "2:rb 7:g 8:o 9:p 12:kw")

	loser, ok := s.Loser(cfg)
	require.True(t, ok)
	assert.Equal(t, board.Red, loser)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "1:rb 3:g 5:o 6:p 10:kw +7")
	before := s.Notation()

	clone := s.Clone()
	clone.Stacks[1][0] = board.Green
	clone.Stacks[15] = Stack{board.Purple}
	clone.Pool = clone.Pool[:1]
	clone.Traps.OasisTile = 2
	clone.Finished = append(clone.Finished, board.Red)

	assert.Equal(t, before, s.Notation())
}

func TestRaceOverIgnoresCrazyCamels(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p done:kw pool:rbgop")

	assert.False(t, s.RaceOver())
	_, ok := s.Winner()
	assert.False(t, ok)
}

func TestValidateViolations(t *testing.T) {
	cfg := testConfig()

	valid := func() GameState {
		return MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p 10:kw").GameState
	}

	tests := []struct {
		name   string
		mutate func(*GameState)
	}{
		{"duplicate camel", func(s *GameState) {
			s.Stacks[8] = Stack{board.Red}
		}},
		{"missing camel", func(s *GameState) {
			delete(s.Stacks, 1)
		}},
		{"empty stack", func(s *GameState) {
			s.Stacks[9] = Stack{}
		}},
		{"stack beyond finish", func(s *GameState) {
			s.Stacks[16] = s.Stacks[1]
			delete(s.Stacks, 1)
		}},
		{"crazy pair split", func(s *GameState) {
			s.Stacks[10] = Stack{board.Black}
			s.Stacks[11] = Stack{board.White}
		}},
		{"trap on occupied tile at leg start", func(s *GameState) {
			s.Traps.OasisTile = 3
		}},
		{"trap beyond finish", func(s *GameState) {
			s.Traps.DesertTile = 16
		}},
		{"both traps on one tile", func(s *GameState) {
			s.Traps.OasisTile = 8
			s.Traps.DesertTile = 8
		}},
		{"duplicate die", func(s *GameState) {
			s.Pool = append(s.Pool, board.DieRed)
		}},
		{"die for finished camel", func(s *GameState) {
			delete(s.Stacks, 5)
			s.Finished = append(s.Finished, board.Purple)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(cfg), ErrInvariantViolation)
		})
	}
}

func TestValidateAcceptsOccupiedTrapTileMidLeg(t *testing.T) {
	cfg := testConfig()

	// Once a draw has been taken, a unit may legitimately rest on a trap
	// tile: a trap mini-move that lands on the other trap does not fire it.
	s := MustParseState(cfg, "6:r 1:b 3:g 4:o 8:p 10:kw +5 -6 pool:bgop*")
	assert.NoError(t, s.Validate(cfg))
}

func TestValidateAcceptsFinishedCrazyPair(t *testing.T) {
	cfg := testConfig()
	s := MustParseState(cfg, "1:r 2:b 3:g 4:o 5:p done:wk pool:rbgop")
	assert.NoError(t, s.Validate(cfg))
}
