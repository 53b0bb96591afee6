package race

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/dromedary/camel-odds/internal/board"
)

// BeginLeg starts a fresh leg: bumps the leg counter, refills the dice
// pool for every camel still on the track, and draws a new trap layout
// uniformly at random among valid layouts (one oasis, one desert, on
// distinct unoccupied tiles before the finish line).
func (s *RaceState) BeginLeg(cfg board.Config, rng *rand.Rand) error {
	s.Leg++

	s.Pool = s.Pool[:0]
	for _, racer := range cfg.Racers() {
		if !s.IsFinished(racer) {
			s.Pool = append(s.Pool, board.Die(racer))
		}
	}
	if cfg.CrazyPair {
		if _, _, bok := s.Find(board.Black); bok {
			s.Pool = append(s.Pool, board.DieCrazy)
		} else if _, _, wok := s.Find(board.White); wok {
			s.Pool = append(s.Pool, board.DieCrazy)
		}
	}

	var candidates []int
	for tile := 1; tile < cfg.FinishLine; tile++ {
		if _, occupied := s.Stacks[tile]; !occupied {
			candidates = append(candidates, tile)
		}
	}
	if len(candidates) < 2 {
		return fmt.Errorf("no room for traps on leg %d: %w", s.Leg, ErrInvariantViolation)
	}

	// Two distinct picks without building a permutation.
	idx1 := rng.IntN(len(candidates))
	idx2 := rng.IntN(len(candidates) - 1)
	if idx2 >= idx1 {
		idx2++
	}
	s.Traps = Traps{OasisTile: candidates[idx1], DesertTile: candidates[idx2]}

	return nil
}

// NewRace rolls the opening placement: each racer enters at the tile of
// its own die roll, crazy camels enter the same distance back from the
// finish line, and the first leg begins.
func NewRace(cfg board.Config, rng *rand.Rand) (RaceState, error) {
	rs := RaceState{GameState: GameState{
		Stacks: make(map[int]Stack),
		Traps:  NoTraps(),
	}}

	for _, racer := range cfg.Racers() {
		tile := 1 + rng.IntN(cfg.DiceFaces)
		rs.Stacks[tile] = append(rs.Stacks[tile], racer)
	}
	if cfg.CrazyPair {
		// The pair enters together; it never splits.
		tile := clampTile(cfg.FinishLine - 1 - rng.IntN(cfg.DiceFaces))
		rs.Stacks[tile] = append(rs.Stacks[tile], board.Black, board.White)
	}

	if err := rs.BeginLeg(cfg, rng); err != nil {
		return RaceState{}, err
	}
	if err := rs.Validate(cfg); err != nil {
		return RaceState{}, err
	}
	return rs, nil
}
