package race

import (
	"fmt"
	"sort"

	"github.com/dromedary/camel-odds/internal/board"
)

// NoTrapTile marks an unset trap position.
const NoTrapTile = -1

// Stack is an ordered group of camels sharing a tile, bottom to top.
type Stack []board.Color

// Traps is the leg-local trap layout: at most one oasis and one desert,
// fixed for the duration of a leg.
type Traps struct {
	OasisTile  int
	DesertTile int
}

// NoTraps returns an empty layout
func NoTraps() Traps {
	return Traps{OasisTile: NoTrapTile, DesertTile: NoTrapTile}
}

// At returns the trap kind on the given tile
func (t Traps) At(tile int) board.TrapKind {
	switch tile {
	case NoTrapTile:
		return board.NoTrap
	case t.OasisTile:
		return board.Oasis
	case t.DesertTile:
		return board.Desert
	default:
		return board.NoTrap
	}
}

// GameState is a snapshot of a leg in progress. All engine operations
// deep-copy before mutating; a GameState handed to an engine is never
// written through.
type GameState struct {
	// Stacks maps tile index to the camels on it, bottom to top.
	Stacks map[int]Stack

	// Pool holds the dice not yet drawn this leg.
	Pool []board.Die

	// Traps is the trap layout for the current leg.
	Traps Traps

	// Leg counts legs played, starting at 1.
	Leg int

	// Finished records camels that crossed the finish line, first first.
	// Finished camels are off the track and inert.
	Finished []board.Color
}

// RaceState extends GameState with nothing but identity: everything a
// fresh leg needs (a re-randomized trap layout and a refilled pool) is
// derived from the board config and an RNG via BeginLeg.
type RaceState struct {
	GameState
}

// Clone returns a deep copy; mutating the copy never touches the original
func (s GameState) Clone() GameState {
	ns := GameState{
		Stacks: make(map[int]Stack, len(s.Stacks)),
		Pool:   append([]board.Die(nil), s.Pool...),
		Traps:  s.Traps,
		Leg:    s.Leg,
	}
	for tile, stack := range s.Stacks {
		ns.Stacks[tile] = append(Stack(nil), stack...)
	}
	if s.Finished != nil {
		ns.Finished = append([]board.Color(nil), s.Finished...)
	}
	return ns
}

// Clone returns a deep copy of the race state
func (s RaceState) Clone() RaceState {
	return RaceState{GameState: s.GameState.Clone()}
}

// Find locates a camel on the track, returning its tile and height
// (0 = bottom of stack)
func (s GameState) Find(c board.Color) (tile, height int, ok bool) {
	for t, stack := range s.Stacks {
		for h, camel := range stack {
			if camel == c {
				return t, h, true
			}
		}
	}
	return 0, 0, false
}

// HasDie reports whether the die is still in the pool
func (s GameState) HasDie(d board.Die) bool {
	for _, pd := range s.Pool {
		if pd == d {
			return true
		}
	}
	return false
}

// IsFinished reports whether the camel has crossed the finish line
func (s GameState) IsFinished(c board.Color) bool {
	for _, f := range s.Finished {
		if f == c {
			return true
		}
	}
	return false
}

// RaceOver reports whether any racing camel has crossed the finish line
func (s GameState) RaceOver() bool {
	for _, f := range s.Finished {
		if f.IsRacer() {
			return true
		}
	}
	return false
}

// Winner returns the first racing camel to have crossed the finish line
func (s GameState) Winner() (board.Color, bool) {
	for _, f := range s.Finished {
		if f.IsRacer() {
			return f, true
		}
	}
	return 0, false
}

// Standings ranks the racing camels best to worst: finished camels first
// in finish order, then on-track racers by tile and height, topmost of
// the leading tile first. Crazy camels never place.
func (s GameState) Standings(cfg board.Config) []board.Color {
	ranked := make([]board.Color, 0, cfg.RacerCount)
	for _, c := range s.Finished {
		if c.IsRacer() {
			ranked = append(ranked, c)
		}
	}

	type spot struct {
		camel  board.Color
		tile   int
		height int
	}
	var onTrack []spot
	for tile, stack := range s.Stacks {
		for h, c := range stack {
			if c.IsRacer() {
				onTrack = append(onTrack, spot{camel: c, tile: tile, height: h})
			}
		}
	}
	sort.Slice(onTrack, func(i, j int) bool {
		if onTrack[i].tile != onTrack[j].tile {
			return onTrack[i].tile > onTrack[j].tile
		}
		return onTrack[i].height > onTrack[j].height
	})
	for _, sp := range onTrack {
		ranked = append(ranked, sp.camel)
	}
	return ranked
}

// Loser returns the trailing racer: lowest tile, bottom of stack on ties
func (s GameState) Loser(cfg board.Config) (board.Color, bool) {
	standings := s.Standings(cfg)
	if len(standings) == 0 {
		return 0, false
	}
	return standings[len(standings)-1], true
}

// Validate checks the structural invariants the engines rely on. It is
// meant for state-construction boundaries; engines do not re-check
// intermediate states they produced themselves.
func (s GameState) Validate(cfg board.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("board config: %v: %w", err, ErrInvariantViolation)
	}

	seen := make(map[board.Color]bool)
	note := func(c board.Color) error {
		if seen[c] {
			return fmt.Errorf("camel %s appears twice: %w", c, ErrInvariantViolation)
		}
		seen[c] = true
		return nil
	}

	for tile, stack := range s.Stacks {
		if len(stack) == 0 {
			return fmt.Errorf("empty stack at tile %d: %w", tile, ErrInvariantViolation)
		}
		if tile < 0 || tile >= cfg.FinishLine {
			return fmt.Errorf("stack at tile %d outside track: %w", tile, ErrInvariantViolation)
		}
		for _, c := range stack {
			if err := note(c); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Finished {
		if err := note(c); err != nil {
			return err
		}
	}

	inPlay := cfg.Camels()
	if len(seen) != len(inPlay) {
		return fmt.Errorf("camel count %d, want %d: %w", len(seen), len(inPlay), ErrInvariantViolation)
	}
	for _, c := range inPlay {
		if !seen[c] {
			return fmt.Errorf("camel %s missing: %w", c, ErrInvariantViolation)
		}
	}

	if cfg.CrazyPair {
		bt, bh, bok := s.Find(board.Black)
		wt, wh, wok := s.Find(board.White)
		if bok && wok {
			if bt != wt || abs(bh-wh) != 1 {
				return fmt.Errorf("crazy pair split across tile %d and tile %d: %w", bt, wt, ErrInvariantViolation)
			}
		}
	}

	// Traps are placed on unoccupied tiles, but only at leg start: once
	// draws are in flight a unit can come to rest on a trap tile, because
	// a trap mini-move landing on the other trap does not fire it.
	legStart := len(s.Pool) == len(fullPool(cfg, s))
	for _, trap := range []struct {
		kind board.TrapKind
		tile int
	}{{board.Oasis, s.Traps.OasisTile}, {board.Desert, s.Traps.DesertTile}} {
		if trap.tile == NoTrapTile {
			continue
		}
		if trap.tile < 1 || trap.tile >= cfg.FinishLine {
			return fmt.Errorf("%s trap on tile %d outside track: %w", trap.kind, trap.tile, ErrInvariantViolation)
		}
		if _, occupied := s.Stacks[trap.tile]; occupied && legStart {
			return fmt.Errorf("%s trap on occupied tile %d at leg start: %w", trap.kind, trap.tile, ErrInvariantViolation)
		}
	}
	if s.Traps.OasisTile != NoTrapTile && s.Traps.OasisTile == s.Traps.DesertTile {
		return fmt.Errorf("both traps on tile %d: %w", s.Traps.OasisTile, ErrInvariantViolation)
	}

	seenDice := make(map[board.Die]bool)
	for _, d := range s.Pool {
		if seenDice[d] {
			return fmt.Errorf("%s die in pool twice: %w", d, ErrInvariantViolation)
		}
		seenDice[d] = true
		if racer, ok := d.Racer(); ok {
			if int(racer) >= cfg.RacerCount {
				return fmt.Errorf("%s die not in play: %w", d, ErrInvariantViolation)
			}
			if s.IsFinished(racer) {
				return fmt.Errorf("%s die in pool but camel finished: %w", d, ErrInvariantViolation)
			}
		} else if !cfg.CrazyPair {
			return fmt.Errorf("crazy die in pool without crazy pair: %w", ErrInvariantViolation)
		}
	}

	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
