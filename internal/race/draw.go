package race

import (
	"fmt"

	"github.com/dromedary/camel-odds/internal/board"
)

// Apply resolves a single dice draw against a state and returns the
// resulting state. The input state is never mutated; on error it is
// returned untouched semantics-wise (no partial application).
//
// Racer dice move the named camel and every camel stacked above it
// forward by face tiles. The crazy die moves the unit rooted at the
// lower crazy camel backward by face tiles. Forward-moving units land on
// top of existing occupants; backward-moving units arrive from below and
// land underneath them.
func Apply(cfg board.Config, s GameState, d board.Die, face int) (GameState, error) {
	if face < 1 || face > cfg.DiceFaces {
		return GameState{}, fmt.Errorf("face %d outside 1..%d: %w", face, cfg.DiceFaces, ErrInvalidDraw)
	}
	if !s.HasDie(d) {
		return GameState{}, fmt.Errorf("%s die not in pool: %w", d, ErrInvalidDraw)
	}

	ns := s.Clone()
	ns.removeDie(d)

	mover, delta, err := ns.resolveMover(d, face)
	if err != nil {
		return GameState{}, err
	}

	tile, height, ok := ns.Find(mover)
	if !ok {
		return GameState{}, fmt.Errorf("camel %s not on track: %w", mover, ErrInvalidDraw)
	}

	unit := ns.detach(tile, height)
	dest := clampTile(tile + delta)
	forward := delta > 0

	// Trap mini-move: the moved unit passes over the trap tile instead of
	// resting on it. Traps never chain.
	switch ns.Traps.At(dest) {
	case board.Oasis:
		dest = clampTile(dest + cfg.OasisShift)
		forward = true
	case board.Desert:
		dest = clampTile(dest - cfg.DesertShift)
		reverseUnit(unit)
		forward = false
	}

	ns.land(dest, unit, forward)
	ns.finishAt(cfg, dest)

	return ns, nil
}

// resolveMover maps a die to the camel whose unit moves and the signed
// tile delta
func (s *GameState) resolveMover(d board.Die, face int) (board.Color, int, error) {
	if racer, ok := d.Racer(); ok {
		return racer, face, nil
	}
	// The crazy pair moves together regardless of which camel is on top,
	// so the unit is rooted at whichever sits lower.
	_, bh, bok := s.Find(board.Black)
	_, wh, wok := s.Find(board.White)
	switch {
	case bok && wok:
		if bh < wh {
			return board.Black, -face, nil
		}
		return board.White, -face, nil
	case bok:
		return board.Black, -face, nil
	case wok:
		return board.White, -face, nil
	}
	return 0, 0, fmt.Errorf("no crazy camel on track: %w", ErrInvalidDraw)
}

// detach removes and returns the camels at height and above on a tile
func (s *GameState) detach(tile, height int) Stack {
	stack := s.Stacks[tile]
	unit := append(Stack(nil), stack[height:]...)
	if height == 0 {
		delete(s.Stacks, tile)
	} else {
		s.Stacks[tile] = stack[:height]
	}
	return unit
}

// land places a unit on a tile: on top of existing occupants for forward
// arrivals, underneath them for backward arrivals
func (s *GameState) land(tile int, unit Stack, forward bool) {
	existing := s.Stacks[tile]
	if len(existing) == 0 {
		s.Stacks[tile] = unit
		return
	}
	if forward {
		s.Stacks[tile] = append(existing, unit...)
	} else {
		s.Stacks[tile] = append(unit, existing...)
	}
}

// finishAt removes camels at or beyond the finish line from the track,
// recording them top first, and retires their dice
func (s *GameState) finishAt(cfg board.Config, tile int) {
	if tile < cfg.FinishLine {
		return
	}
	stack := s.Stacks[tile]
	delete(s.Stacks, tile)
	for i := len(stack) - 1; i >= 0; i-- {
		c := stack[i]
		s.Finished = append(s.Finished, c)
		if c.IsRacer() {
			s.removeDie(board.Die(c))
		}
	}
	// Retire the shared die once neither crazy camel remains on track.
	if _, _, bok := s.Find(board.Black); !bok {
		if _, _, wok := s.Find(board.White); !wok {
			s.removeDie(board.DieCrazy)
		}
	}
}

func (s *GameState) removeDie(d board.Die) {
	for i, pd := range s.Pool {
		if pd == d {
			s.Pool = append(s.Pool[:i], s.Pool[i+1:]...)
			return
		}
	}
}

// reverseUnit reverses a moved unit in place for desert stacking, keeping
// the crazy pair an atomic block whose internal order never changes
func reverseUnit(u Stack) {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
	for i := 0; i+1 < len(u); i++ {
		if u[i].IsCrazy() && u[i+1].IsCrazy() {
			u[i], u[i+1] = u[i+1], u[i]
			return
		}
	}
}

// clampTile keeps backward movement on the board; a unit pushed past the
// first tile stops there
func clampTile(tile int) int {
	if tile < 0 {
		return 0
	}
	return tile
}
